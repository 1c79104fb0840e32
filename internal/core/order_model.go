package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client is a shop customer. Orders refer to clients by name only, so renaming
// a client does not relink past orders.
type Client struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// LineItem is one priced product or service inside an order.
// Total is absent on records written before line totals were stored.
type LineItem struct {
	Name     string              `json:"name"`
	Quantity decimal.Decimal     `json:"quantity"`
	Price    decimal.Decimal     `json:"price"`
	Discount decimal.Decimal     `json:"discount"`
	Total    decimal.NullDecimal `json:"total"`
}

// IsDraft reports whether the row is an unfinished form row: no name,
// no positive quantity, or a negative price.
func (li LineItem) IsDraft() bool {
	if strings.TrimSpace(li.Name) == "" {
		return true
	}
	if !li.Quantity.IsPositive() {
		return true
	}
	return li.Price.IsNegative()
}

// CleanItems drops draft rows and prices the rest. Draft rows are never an
// error; they simply do not survive persistence.
func CleanItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, li := range items {
		if li.IsDraft() {
			continue
		}
		li.Name = strings.TrimSpace(li.Name)
		out = append(out, PriceItem(li))
	}
	return out
}

// EyeRecord holds one eye's refraction. Values are kept as typed text because
// sphere and cylinder may be negative or fractional and are never computed on.
type EyeRecord struct {
	Sph string `json:"sph"`
	Cyl string `json:"cyl"`
	Ax  string `json:"ax"`
}

// Prescription is the optometrist's prescription attached to an order.
type Prescription struct {
	OD EyeRecord `json:"od"`
	OS EyeRecord `json:"os"`
	PD string    `json:"pd"`
}

// Order is a customer order for glasses or services.
//
// TotalAmount, PaidAmount and DebtAmount are stored as submitted. They are
// expected to satisfy total = Σ line totals and debt = total − paid, but that
// is not enforced; see Reconcile.
type Order struct {
	ID           int             `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	ClientName   string          `json:"clientName"`
	ClientPhone  string          `json:"clientPhone"`
	AcceptDate   string          `json:"acceptDate"` // YYYY-MM-DD
	ReadyDate    string          `json:"readyDate"`  // YYYY-MM-DD
	Prescription Prescription    `json:"prescription"`
	Items        []LineItem      `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	DebtAmount   decimal.Decimal `json:"debtAmount"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// IsComplete reports whether the order has at least one real line item.
func (o Order) IsComplete() bool {
	for _, li := range o.Items {
		if !li.IsDraft() {
			return true
		}
	}
	return false
}

// OrderInput carries the editable fields of an order as submitted by a form.
// Identifier, status and creation time are owned by the controller.
type OrderInput struct {
	ClientName   string
	ClientPhone  string
	AcceptDate   string
	ReadyDate    string
	Prescription Prescription
	Items        []LineItem
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	DebtAmount   decimal.Decimal
}

// DateLayout is the calendar date format used for accept and ready dates.
const DateLayout = "2006-01-02"

// defaultReadyDays is how long the workshop normally needs.
const defaultReadyDays = 7

// normalizeDates fills an empty accept date with today and an empty ready date
// with accept date + 7 days. Unparseable accept dates leave the ready date empty.
func normalizeDates(in *OrderInput, today time.Time) {
	in.AcceptDate = strings.TrimSpace(in.AcceptDate)
	in.ReadyDate = strings.TrimSpace(in.ReadyDate)
	if in.AcceptDate == "" {
		in.AcceptDate = today.Format(DateLayout)
	}
	if in.ReadyDate != "" {
		return
	}
	accept, err := time.Parse(DateLayout, in.AcceptDate)
	if err != nil {
		return
	}
	in.ReadyDate = accept.AddDate(0, 0, defaultReadyDays).Format(DateLayout)
}
