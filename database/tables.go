package database

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

const (
	PaymentsTable  = "orders_with_payments"
	OrdersTable    = "orders"
	CustomersTable = "customer_rfm"
)

type tableSpec struct {
	name     string
	required []string
	optional []string
}

var (
	paymentsSpec = tableSpec{
		name:     PaymentsTable,
		required: []string{"order_approved_at", "payment_value"},
		optional: []string{"order_id"},
	}
	ordersSpec = tableSpec{
		name:     OrdersTable,
		required: []string{"order_approved_at"},
		optional: []string{"order_id"},
	}
	customersSpec = tableSpec{
		name:     CustomersTable,
		required: []string{"frequency", "recency", "monetary", "segment_result"},
		optional: []string{"customer_unique_id", "customer_id"},
	}
)

func (s tableSpec) wanted() []string {
	return append(append([]string{}, s.required...), s.optional...)
}

// rawTable is a source table reduced to the columns the dashboard reads, as text.
type rawTable struct {
	name    string
	shape   models.Shape
	columns map[string][]string
}

func newRawTable(spec tableSpec, present []string) (rawTable, error) {
	seen := make(map[string]bool, len(present))
	for _, c := range present {
		seen[c] = true
	}
	for _, c := range spec.required {
		if !seen[c] {
			return rawTable{}, errors.Errorf("%s: missing required column %q", spec.name, c)
		}
	}
	return rawTable{
		name:    spec.name,
		shape:   models.Shape{Columns: len(present)},
		columns: make(map[string][]string),
	}, nil
}

func (t rawTable) cell(col string, i int) string {
	vals, ok := t.columns[col]
	if !ok || i >= len(vals) {
		return ""
	}
	return strings.TrimSpace(vals[i])
}

func (t rawTable) firstCell(i int, cols ...string) string {
	for _, c := range cols {
		if v := t.cell(c, i); v != "" && !isNull(v) {
			return v
		}
	}
	return ""
}

func decodePayments(t rawTable) (models.PaymentsTable, error) {
	out := models.PaymentsTable{Shape: t.shape, Rows: make([]models.OrderPayment, 0, t.shape.Rows)}
	for i := 0; i < t.shape.Rows; i++ {
		ts, err := parseTimestamp(t.cell("order_approved_at", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column order_approved_at", t.name, i+1)
		}
		v, err := parseNullDecimal(t.cell("payment_value", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column payment_value", t.name, i+1)
		}
		out.Rows = append(out.Rows, models.OrderPayment{
			OrderID:      t.firstCell(i, "order_id"),
			ApprovedAt:   ts,
			PaymentValue: v,
		})
	}
	return out, nil
}

func decodeOrders(t rawTable) (models.OrdersTable, error) {
	out := models.OrdersTable{Shape: t.shape, Rows: make([]models.Order, 0, t.shape.Rows)}
	for i := 0; i < t.shape.Rows; i++ {
		ts, err := parseTimestamp(t.cell("order_approved_at", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column order_approved_at", t.name, i+1)
		}
		out.Rows = append(out.Rows, models.Order{OrderID: t.firstCell(i, "order_id"), ApprovedAt: ts})
	}
	return out, nil
}

func decodeCustomers(t rawTable) (models.CustomersTable, error) {
	out := models.CustomersTable{Shape: t.shape, Rows: make([]models.CustomerRFM, 0, t.shape.Rows)}
	for i := 0; i < t.shape.Rows; i++ {
		freq, err := parseInt(t.cell("frequency", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column frequency", t.name, i+1)
		}
		rec, err := parseInt(t.cell("recency", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column recency", t.name, i+1)
		}
		mon, err := parseDecimal(t.cell("monetary", i))
		if err != nil {
			return out, errors.Wrapf(err, "%s row %d column monetary", t.name, i+1)
		}
		seg := t.cell("segment_result", i)
		if isNull(seg) {
			seg = ""
		}
		out.Rows = append(out.Rows, models.CustomerRFM{
			CustomerID: t.firstCell(i, customersSpec.optional...),
			Frequency:  freq,
			Recency:    rec,
			Monetary:   mon,
			Segment:    seg,
		})
	}
	return out, nil
}

func assemble(source string, payments, orders, customers rawTable) (*models.Dataset, error) {
	p, err := decodePayments(payments)
	if err != nil {
		return nil, err
	}
	o, err := decodeOrders(orders)
	if err != nil {
		return nil, err
	}
	c, err := decodeCustomers(customers)
	if err != nil {
		return nil, err
	}
	return &models.Dataset{
		SnapshotID: uuid.New().String(),
		LoadedAt:   time.Now().UTC(),
		Source:     source,
		Payments:   p,
		Orders:     o,
		Customers:  c,
	}, nil
}

var nullTokens = map[string]bool{"": true, "nan": true, "na": true, "nat": true, "<nil>": true, "null": true}

func isNull(s string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(s))]
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp returns nil for null cells.
func parseTimestamp(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.Errorf("unparseable timestamp %q", s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return decimal.Zero, errors.New("missing numeric value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "unparseable number %q", s)
	}
	return d, nil
}

// parseNullDecimal is parseDecimal for columns where a null cell is a missing amount.
func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	if isNull(s) {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return 0, errors.New("missing integer value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, errors.Errorf("unparseable integer %q", s)
	}
	// int(f) is undefined outside the int range; the upper bound is exclusive
	// because float64(math.MaxInt) rounds up to 2^63.
	if math.IsInf(f, 0) || f < math.MinInt || f >= math.MaxInt {
		return 0, errors.Errorf("integer %q out of range", s)
	}
	return int(f), nil
}
