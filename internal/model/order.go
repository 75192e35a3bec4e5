package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusNew                = "new"
	OrderStatusSent               = "sent"
	OrderStatusDone               = "done"
	OrderStatusPendingRefundPrint = "pending refund print"
	OrderStatusRefundSent         = "refund sent"
)

// Order is a single row of the orders table. Only one item is stored per order.
type Order struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	Quantity     int
	IsFood       bool
	Time         string
	Venue        string
	Total        decimal.Decimal
	Status       string
	FiscalID     string
	RefundAmount decimal.NullDecimal
	RefundReason *string
	RefundDate   *string
}

// Item fields are pointers so that a missing key can be told apart from a zero value.
type Item struct {
	Name     *string             `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	Quantity *int                `json:"quantity"`
	IsFood   *bool               `json:"isfood"`
}

// OrderInput is the payload accepted by /process-json. The item list is
// historically keyed as "name".
type OrderInput struct {
	Items []Item              `json:"name"`
	Time  *string             `json:"Time"`
	Venue string              `json:"venue"`
	Total decimal.NullDecimal `json:"total"`
	ID    *int64              `json:"id"`
}

// MissingFields lists the required keys absent from the payload, items included.
func (i OrderInput) MissingFields() []string {
	var missing []string
	if i.Time == nil {
		missing = append(missing, "Time")
	}
	if !i.Total.Valid {
		missing = append(missing, "total")
	}
	for n, item := range i.Items {
		if item.Name == nil {
			missing = append(missing, fmt.Sprintf("name[%d].name", n))
		}
		if !item.Price.Valid {
			missing = append(missing, fmt.Sprintf("name[%d].price", n))
		}
		if item.Quantity == nil {
			missing = append(missing, fmt.Sprintf("name[%d].quantity", n))
		}
		if item.IsFood == nil {
			missing = append(missing, fmt.Sprintf("name[%d].isfood", n))
		}
	}
	return missing
}

type OrderOutput struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	IsFood   bool            `json:"isfood"`
	Time     string          `json:"Time"`
	Venue    string          `json:"venue"`
	Total    decimal.Decimal `json:"total"`
	Status   string          `json:"status,omitempty"`
}

type OrderDetails struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Price        decimal.Decimal     `json:"price"`
	Quantity     int                 `json:"quantity"`
	IsFood       bool                `json:"isfood"`
	Time         string              `json:"Time"`
	Venue        string              `json:"venue"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	FiscalID     string              `json:"fiscal_id"`
	RefundAmount decimal.NullDecimal `json:"refund_amount"`
	RefundReason *string             `json:"refund_reason"`
	RefundDate   *string             `json:"refund_date"`
}

// NewOrderOutput builds the poller view of o. The legacy shape drops id and status.
func NewOrderOutput(o Order, legacy bool) OrderOutput {
	out := OrderOutput{
		Name:     o.Name,
		Price:    o.Price,
		Quantity: o.Quantity,
		IsFood:   o.IsFood,
		Time:     o.Time,
		Venue:    o.Venue,
		Total:    o.Total,
	}
	if !legacy {
		id := o.ID
		out.ID = &id
		out.Status = o.Status
	}
	return out
}

func NewOrderDetails(o Order) OrderDetails {
	return OrderDetails{
		ID:           o.ID,
		Name:         o.Name,
		Price:        o.Price,
		Quantity:     o.Quantity,
		IsFood:       o.IsFood,
		Time:         o.Time,
		Venue:        o.Venue,
		Total:        o.Total,
		Status:       o.Status,
		FiscalID:     o.FiscalID,
		RefundAmount: o.RefundAmount,
		RefundReason: o.RefundReason,
		RefundDate:   o.RefundDate,
	}
}
