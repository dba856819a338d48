package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
)

// ExcelReporter writes session history to an Excel workbook.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

type excelStyles struct {
	header int
	win    int
	loss   int
}

// WriteSessionXLSX writes the trade history, tier history and summary
// counters to a workbook at path.
func (r *ExcelReporter) WriteSessionXLSX(s *performance.State, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	const tiersSheet = "Tier History"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)
	fx.NewSheet(tiersSheet)
	fx.NewSheet(summarySheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeTradesSheet(fx, tradesSheet, s, styles); err != nil {
		return err
	}
	if err := r.writeTierSheet(fx, tiersSheet, s, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, summarySheet, s, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	if err != nil {
		return styles, err
	}

	styles.win, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
	})
	if err != nil {
		return styles, err
	}

	styles.loss, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
	})
	return styles, err
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, s *performance.State, styles excelStyles) error {
	headers := []string{"ID", "Timestamp", "Pair", "Side", "P&L", "Tier"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	headerEnd, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(sheet, "A1", headerEnd, styles.header); err != nil {
		return err
	}

	for i, o := range s.TradeHistory {
		row := i + 2
		values := []interface{}{
			o.ID,
			o.Timestamp.Format("2006-01-02 15:04:05"),
			o.Pair,
			string(o.Side),
			o.PnL,
			o.TierLabel,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}

		pnlCell, _ := excelize.CoordinatesToCellName(5, row)
		style := styles.loss
		if o.IsWin() {
			style = styles.win
		}
		if err := fx.SetCellStyle(sheet, pnlCell, pnlCell, style); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "B", 22)
}

func (r *ExcelReporter) writeTierSheet(fx *excelize.File, sheet string, s *performance.State, styles excelStyles) error {
	fx.SetCellValue(sheet, "A1", "Timestamp")
	fx.SetCellValue(sheet, "B1", "Tier")
	if err := fx.SetCellStyle(sheet, "A1", "B1", styles.header); err != nil {
		return err
	}

	for i, change := range s.TierHistory {
		row := i + 2
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", row), change.Timestamp.Format("2006-01-02 15:04:05"))
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", row), change.Label)
	}

	return fx.SetColWidth(sheet, "A", "A", 22)
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, s *performance.State, styles excelStyles) error {
	fx.SetCellValue(sheet, "A1", "Metric")
	fx.SetCellValue(sheet, "B1", "Value")
	if err := fx.SetCellStyle(sheet, "A1", "B1", styles.header); err != nil {
		return err
	}

	winRate := 0.0
	if s.TotalTrades > 0 {
		winRate = float64(s.WinningTrades) / float64(s.TotalTrades)
	}

	rows := []struct {
		metric string
		value  interface{}
	}{
		{"Initial Capital", s.InitialCapital},
		{"Current Capital", s.CurrentCapital},
		{"Active Tier", s.ActiveTier.String()},
		{"Total Trades", s.TotalTrades},
		{"Winning Trades", s.WinningTrades},
		{"Losing Trades", s.LosingTrades},
		{"Win Rate", winRate},
		{"Max Win Streak", s.MaxConsecutiveWins},
		{"Max Loss Streak", s.MaxConsecutiveLosses},
		{"Daily P&L", s.DailyPnL},
		{"Drawdown", s.Drawdown()},
	}

	for i, r := range rows {
		row := i + 2
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.metric)
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.value)
	}

	return fx.SetColWidth(sheet, "A", "A", 18)
}
