// Package export writes a report as an Excel workbook or a markdown document.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ecomdash/api/charts"
	"ecomdash/api/models"
)

const (
	sheetSummary  = "Summary"
	sheetIncome   = "Monthly Income"
	sheetOrders   = "Monthly Orders"
	sheetRFM      = "RFM Distributions"
	sheetSegments = "Segments"
	sheetCharts   = "Charts"
)

// WriteWorkbook writes r as an xlsx file. Chart images are embedded when withCharts is set.
func WriteWorkbook(w io.Writer, r *models.Report, withCharts bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetIncome, sheetOrders, sheetRFM, sheetSegments} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	s := r.Summary
	growth := any("n/a")
	if s.GrowthPercent != nil {
		growth = *s.GrowthPercent
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Snapshot", r.SnapshotID},
		{"Source", r.Source},
		{"Total Orders (" + s.TotalOrdersMode + ")", s.TotalOrders},
		{"Payment rows", s.PaymentRows},
		{"Total Income", s.TotalIncome.InexactFloat64()},
		{fmt.Sprintf("Total Orders in %d (%s)", s.Year, s.TotalOrdersMode), s.OrdersInYear},
		{fmt.Sprintf("Orders in January %d", s.Year), s.JanuaryOrders},
		{fmt.Sprintf("Orders in December %d", s.Year), s.DecemberOrders},
		{fmt.Sprintf("Growth in %d (%%)", s.Year), growth},
		{"One-time buyer share", r.OneTimeShare},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}

	income := [][]any{{"Month", "Income", "Income (Thousand)"}}
	for _, m := range r.MonthlyIncome {
		income = append(income, []any{m.Label, m.Income.InexactFloat64(), m.IncomeThousands})
	}
	if err := writeRows(f, sheetIncome, income); err != nil {
		return err
	}

	orders := [][]any{{"Month", "Label", "Order Count"}}
	for _, m := range r.MonthlyOrders {
		orders = append(orders, []any{m.Month, m.Label, m.Count})
	}
	if err := writeRows(f, sheetOrders, orders); err != nil {
		return err
	}

	rfm := [][]any{{"Field", "Bin Min", "Bin Max", "User Count"}}
	for _, d := range []models.Distribution{r.Frequency, r.Recency, r.Monetary} {
		for _, b := range d.Bins {
			rfm = append(rfm, []any{d.Field, b.Min, b.Max, b.Count})
		}
	}
	rfm = append(rfm, []any{}, []any{"Field", "Count", "Min", "P25", "Median", "Mean", "P75", "P90", "Max", "Skewness"})
	for _, d := range []models.Distribution{r.Frequency, r.Recency, r.Monetary} {
		st := d.Stats
		rfm = append(rfm, []any{d.Field, st.Count, st.Min, st.P25, st.Median, st.Mean, st.P75, st.P90, st.Max, st.Skewness})
	}
	if err := writeRows(f, sheetRFM, rfm); err != nil {
		return err
	}

	segments := [][]any{{"Segment", "User Count", "Share"}}
	for _, sc := range r.Segments {
		segments = append(segments, []any{sc.Segment, sc.Count, sc.Share})
	}
	if err := writeRows(f, sheetSegments, segments); err != nil {
		return err
	}

	if withCharts {
		if err := addCharts(f, r); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetColWidth(sheet, "A", "J", 18)
}

func addCharts(f *excelize.File, r *models.Report) error {
	if _, err := f.NewSheet(sheetCharts); err != nil {
		return err
	}
	row := 1
	for _, id := range charts.IDs {
		img, err := charts.Render(id, r)
		if err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		err = f.AddPictureFromBytes(sheetCharts, cell, &excelize.Picture{
			Extension: ".png",
			File:      img,
			Format:    &excelize.GraphicOptions{AltText: id, ScaleX: 0.6, ScaleY: 0.6},
		})
		if err != nil {
			return fmt.Errorf("embed %s chart: %w", id, err)
		}
		row += 25
	}
	return nil
}
