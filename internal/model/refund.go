package model

import (
	"github.com/shopspring/decimal"
)

// RefundInput is the /refundroute payload. Older clients send the amount as "ammount".
type RefundInput struct {
	ID      int64               `json:"id"`
	Amount  decimal.NullDecimal `json:"amount"`
	Ammount decimal.NullDecimal `json:"ammount"`
	Reason  *string             `json:"reason"`
	Date    *string             `json:"date"`
}

// RefundAmount prefers "amount" over the legacy key.
func (i RefundInput) RefundAmount() decimal.NullDecimal {
	if i.Amount.Valid {
		return i.Amount
	}
	return i.Ammount
}

type Refund struct {
	Amount decimal.NullDecimal
	Reason *string
	Date   *string
}

type RefundOutput struct {
	ID           *int64              `json:"id,omitempty"`
	Name         string              `json:"name"`
	Price        decimal.Decimal     `json:"price"`
	Quantity     int                 `json:"quantity"`
	IsFood       bool                `json:"isfood"`
	Time         string              `json:"Time"`
	Venue        string              `json:"venue"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status,omitempty"`
	RefundAmount decimal.NullDecimal `json:"refund_amount"`
	RefundReason *string             `json:"refund_reason"`
	RefundDate   *string             `json:"refund_date"`
	FiscalID     string              `json:"fiscal_id"`
}

func NewRefundOutput(o Order, legacy bool) RefundOutput {
	out := RefundOutput{
		Name:         o.Name,
		Price:        o.Price,
		Quantity:     o.Quantity,
		IsFood:       o.IsFood,
		Time:         o.Time,
		Venue:        o.Venue,
		Total:        o.Total,
		RefundAmount: o.RefundAmount,
		RefundReason: o.RefundReason,
		RefundDate:   o.RefundDate,
		FiscalID:     o.FiscalID,
	}
	if !legacy {
		id := o.ID
		out.ID = &id
		out.Status = o.Status
	}
	return out
}
