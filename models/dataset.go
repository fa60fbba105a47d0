// api/models/dataset.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPayment is one order-payment line from orders_with_payments.
// PaymentValue is invalid when the cell was null, e.g. an order without payment.
type OrderPayment struct {
	OrderID      string              `json:"orderId,omitempty"`
	ApprovedAt   *time.Time          `json:"approvedAt,omitempty"`
	PaymentValue decimal.NullDecimal `json:"paymentValue"`
}

// Order is one row of the raw orders table.
type Order struct {
	OrderID    string     `json:"orderId,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// CustomerRFM holds the precomputed Recency/Frequency/Monetary aggregates of one customer.
type CustomerRFM struct {
	CustomerID string          `json:"customerId,omitempty"`
	Frequency  int             `json:"frequency"`
	Recency    int             `json:"recency"`
	Monetary   decimal.Decimal `json:"monetary"`
	Segment    string          `json:"segment"`
}

// Shape is the row and column count of a source table.
// Columns counts every column of the source, not only the ones the dashboard reads.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Size mirrors a dataframe's size: rows multiplied by columns.
func (s Shape) Size() int {
	return s.Rows * s.Columns
}

type PaymentsTable struct {
	Shape Shape
	Rows  []OrderPayment
}

type OrdersTable struct {
	Shape Shape
	Rows  []Order
}

type CustomersTable struct {
	Shape Shape
	Rows  []CustomerRFM
}

// Dataset is one immutable snapshot of the three dashboard tables.
type Dataset struct {
	SnapshotID string
	LoadedAt   time.Time
	Source     string

	Payments  PaymentsTable
	Orders    OrdersTable
	Customers CustomersTable
}
