package export

import (
	"fmt"
	"io"
	"strings"

	"ecomdash/api/models"
)

// WriteMarkdown writes the dashboard as a markdown report.
func WriteMarkdown(w io.Writer, r *models.Report) error {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# E-Commerce Data Analysis\n\n")
	fmt.Fprintf(&b, "_Snapshot %s from %s, loaded %s._\n\n", r.SnapshotID, r.Source, r.LoadedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Total Orders:** %d\n- **Total Income:** %s\n\n", s.TotalOrders, s.TotalIncomeDisplay)
	if s.TotalOrdersMode == models.ModeSize {
		fmt.Fprintf(&b, "> Total Orders counts rows x columns (%d x %d); the row count is %d.\n\n", s.PaymentRows, s.PaymentColumns, s.PaymentRows)
	}

	fmt.Fprintf(&b, "## Income Over Time\n\n| Month | Income | Income (Thousand) |\n|---|---:|---:|\n")
	for _, m := range r.MonthlyIncome {
		fmt.Fprintf(&b, "| %s | %s | %.2f |\n", m.Label, m.Income.StringFixed(2), m.IncomeThousands)
	}

	fmt.Fprintf(&b, "\n## Growth per Month in %d\n\n", s.Year)
	fmt.Fprintf(&b, "- **Total Orders in %d:** %d\n- **Growth in %d:** %s\n\n", s.Year, s.OrdersInYear, s.Year, s.GrowthDisplay)
	fmt.Fprintf(&b, "| Month | Order Count |\n|---|---:|\n")
	for _, m := range r.MonthlyOrders {
		fmt.Fprintf(&b, "| %s | %d |\n", m.Label, m.Count)
	}
	fmt.Fprintf(&b, "\n%s\n\n", r.Narrative.Growth)

	fmt.Fprintf(&b, "## RFM Analysis\n\n")
	for _, p := range []struct {
		title string
		d     models.Distribution
		text  string
	}{
		{"Frequency (purchase) of Users", r.Frequency, r.Narrative.Frequency},
		{"Recency (Time since last purchase) of Users", r.Recency, r.Narrative.Recency},
		{"Monetary (Total Spending) of Users", r.Monetary, r.Narrative.Monetary},
	} {
		st := p.d.Stats
		fmt.Fprintf(&b, "### %s\n\n", p.title)
		fmt.Fprintf(&b, "count %d, min %.2f, median %.2f, mean %.2f, p90 %.2f, max %.2f\n\n", st.Count, st.Min, st.Median, st.Mean, st.P90, st.Max)
		fmt.Fprintf(&b, "%s\n\n", p.text)
	}

	fmt.Fprintf(&b, "### Segmentation based on RFM scores\n\n| Segment | User Count | Share |\n|---|---:|---:|\n")
	for _, sc := range r.Segments {
		fmt.Fprintf(&b, "| %s | %d | %.2f%% |\n", sc.Segment, sc.Count, sc.Share*100)
	}
	fmt.Fprintf(&b, "\n%s\n", r.Narrative.Segments)

	_, err := io.WriteString(w, b.String())
	return err
}
