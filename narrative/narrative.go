// Package narrative renders the explanation text under each dashboard panel from the
// computed values.
package narrative

import (
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"ecomdash/api/analytics"
	"ecomdash/api/models"
)

type Input struct {
	Summary      models.Summary
	Frequency    models.Distribution
	Recency      models.Distribution
	Monetary     models.Distribution
	OneTimeShare float64
	Segments     []models.SegmentCount
}

// Segment taxonomy of the RFM table.
var segmentMeanings = map[string]string{
	"champions":          "bought recently, buy often and spend the most",
	"loyal":              "buy regularly and respond well to promotions",
	"loyal customers":    "buy regularly and respond well to promotions",
	"potential loyalist": "recent customers with average frequency who could become loyal",
	"promising":          "spent an average amount fairly recently",
	"new customers":      "bought for the first time very recently",
	"new":                "bought for the first time very recently",
	"need attention":     "have average recency, frequency and spend but are slipping",
	"about to sleep":     "have not bought recently and have low frequency",
	"at risk":            "used to spend well but have not come back for a while",
	"cant lose them":     "were among the best customers and are drifting away",
	"can't lose them":    "were among the best customers and are drifting away",
	"hibernating":        "spent little and have not bought in a long time",
	"lost":               "have the lowest recency, frequency and spend",
}

func normalizeSegment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// SegmentMeaning returns the description of a known segment label.
func SegmentMeaning(label string) (string, bool) {
	m, ok := segmentMeanings[normalizeSegment(label)]
	return m, ok
}

var funcs = template.FuncMap{
	"pct": func(share float64) string { return fmt.Sprintf("%.2f%%", share*100) },
	"num": func(v float64) string {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	},
	"money": func(v float64) string { return analytics.FormatMoney(decimal.NewFromFloat(v)) },
	"abs":   math.Abs,
	"deref": func(p *float64) float64 { return *p },
	"meaning": func(label string) string {
		m, _ := SegmentMeaning(label)
		return m
	},
	"last": func(s []models.SegmentCount) models.SegmentCount { return s[len(s)-1] },
}

var templates = template.Must(template.New("narrative").Funcs(funcs).Parse(`
{{define "growth"}}{{with .Summary}}{{if .GrowthPercent}}Orders went from {{.JanuaryOrders}} in January to {{.DecemberOrders}} in December {{.Year}}, {{if ge (deref .GrowthPercent) 0.0}}a growth{{else}}a decline{{end}} of {{.GrowthDisplay}}.{{if ge (deref .GrowthPercent) 100.0}} Most of this growth comes from first-time buyers, as the RFM analysis below shows.{{end}}{{else}}There were no approved orders in January {{.Year}}, so the growth up to December ({{.DecemberOrders}} orders) is undefined.{{end}}{{end}}{{end}}

{{define "frequency"}}{{with .Frequency.Stats}}{{if .Count}}{{pct $.OneTimeShare}} of the {{.Count}} customers bought only once. The median customer made {{num .Median}} purchase(s), 90% made at most {{num .P90}} and the most frequent buyer made {{num .Max}}.{{if gt .Skewness 1.0}} The distribution is strongly right skewed (skewness {{printf "%.2f" .Skewness}}): repeat buyers are rare.{{end}}{{else}}No customers in the RFM table.{{end}}{{end}}{{end}}

{{define "recency"}}{{with .Recency.Stats}}{{if .Count}}Half of the customers last bought within {{num .Median}} days. The middle 50% lies between {{num .P25}} and {{num .P75}} days and 10% have been inactive for more than {{num .P90}} days (maximum {{num .Max}}).{{if gt .Median 180.0}} Most customers have not come back for over six months, which points to low retention.{{end}}{{else}}No customers in the RFM table.{{end}}{{end}}{{end}}

{{define "monetary"}}{{with .Monetary.Stats}}{{if .Count}}Customers spent {{money .Mean}} on average against a median of {{money .Median}}; the top 10% spent more than {{money .P90}} (maximum {{money .Max}}).{{if gt .Skewness 0.5}} The distribution is right skewed: many small one-off purchases and a few large spenders.{{else if lt .Skewness -0.5}} The distribution is left skewed: most customers spend close to the top of the range.{{else}} Spending is fairly symmetric around the mean.{{end}}{{else}}No customers in the RFM table.{{end}}{{end}}{{end}}

{{define "segments"}}{{if .Segments}}{{with index .Segments 0}}The largest segment is {{.Segment}} with {{.Count}} customers ({{pct .Share}}){{with meaning .Segment}}; these customers {{.}}{{end}}.{{end}}{{if gt (len .Segments) 1}}{{with last .Segments}} The smallest is {{.Segment}} with {{.Count}} ({{pct .Share}}){{with meaning .Segment}}; these customers {{.}}{{end}}.{{end}}{{end}} Segments by size:{{range $i, $s := .Segments}}{{if $i}},{{end}} {{$s.Segment}} {{$s.Count}}{{end}}.{{else}}No customers in the RFM table.{{end}}{{end}}
`))

func render(name string, in Input) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, in); err != nil {
		return "", fmt.Errorf("render %s narrative: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// Build renders every panel explanation.
func Build(in Input) (models.Narrative, error) {
	var n models.Narrative
	var err error
	if n.Growth, err = render("growth", in); err != nil {
		return n, err
	}
	if n.Frequency, err = render("frequency", in); err != nil {
		return n, err
	}
	if n.Recency, err = render("recency", in); err != nil {
		return n, err
	}
	if n.Monetary, err = render("monetary", in); err != nil {
		return n, err
	}
	if n.Segments, err = render("segments", in); err != nil {
		return n, err
	}
	return n, nil
}
