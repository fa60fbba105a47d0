package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Total order modes. ModeSize multiplies rows by columns like a dataframe's
// size; ModeRows counts rows.
const (
	ModeSize = "size"
	ModeRows = "rows"
)

type Summary struct {
	TotalOrders     int    `json:"totalOrders"`
	TotalOrdersMode string `json:"totalOrdersMode"`
	PaymentRows     int    `json:"paymentRows"`
	PaymentColumns  int    `json:"paymentColumns"`

	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalIncomeDisplay string          `json:"totalIncomeDisplay"`

	Year             int `json:"year"`
	OrdersInYear     int `json:"ordersInYear"`
	OrdersInYearRows int `json:"ordersInYearRows"`

	JanuaryOrders  int      `json:"januaryOrders"`
	DecemberOrders int      `json:"decemberOrders"`
	GrowthPercent  *float64 `json:"growthPercent"` // nil when January had no orders
	GrowthDisplay  string   `json:"growthDisplay"`
}

type MonthlyIncome struct {
	Month           time.Time       `json:"month"`
	Label           string          `json:"label"`
	Income          decimal.Decimal `json:"income"`
	IncomeThousands float64         `json:"incomeThousands"`
}

type MonthlyOrderCount struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type HistogramBin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

type DistributionStats struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	P25      float64 `json:"p25"`
	P75      float64 `json:"p75"`
	P90      float64 `json:"p90"`
	Skewness float64 `json:"skewness"`
}

type Distribution struct {
	Field string            `json:"field"`
	Bins  []HistogramBin    `json:"bins"`
	Stats DistributionStats `json:"stats"`
}

type SegmentCount struct {
	Segment string  `json:"segment"`
	Count   int     `json:"count"`
	Share   float64 `json:"share"`
}

// Narrative holds the explanation text of each panel, generated from live values.
type Narrative struct {
	Growth    string `json:"growth"`
	Frequency string `json:"frequency"`
	Recency   string `json:"recency"`
	Monetary  string `json:"monetary"`
	Segments  string `json:"segments"`
}

// Report is everything the dashboard shows for one snapshot.
type Report struct {
	SnapshotID string    `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Source     string    `json:"source"`

	Summary       Summary             `json:"summary"`
	MonthlyIncome []MonthlyIncome     `json:"monthlyIncome"`
	MonthlyOrders []MonthlyOrderCount `json:"monthlyOrders"`
	Frequency     Distribution        `json:"frequency"`
	Recency       Distribution        `json:"recency"`
	Monetary      Distribution        `json:"monetary"`
	OneTimeShare  float64             `json:"oneTimeBuyerShare"`
	Segments      []SegmentCount      `json:"segments"`
	Narrative     Narrative           `json:"narrative"`
}
