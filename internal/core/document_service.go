package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentService derives display identifiers and printable documents from
// orders. It holds no state of its own.
type DocumentService interface {
	// OrderNumber returns the display code for the n-th order created at t.
	OrderNumber(t time.Time, n int) string
	// BuildDocument assembles the printable order document for o.
	BuildDocument(o Order) OrderDocument
}

type documentService struct {
	shop Shop
}

// NewDocumentService returns a DocumentService printing shop's identity.
func NewDocumentService(shop Shop) DocumentService {
	if shop.Currency == "" {
		shop.Currency = DefaultShop.Currency
	}
	return &documentService{shop: shop}
}

// FormatOrderNumber renders YYMMDD-NNN from the creation date and the
// sequential counter. The code is only as unique as the counter, which is
// reseeded from the highest stored id on every start.
func FormatOrderNumber(t time.Time, n int) string {
	return fmt.Sprintf("%s-%03d", t.Format("060102"), n)
}

func (s *documentService) OrderNumber(t time.Time, n int) string {
	return FormatOrderNumber(t, n)
}

// OrderDocument is the fixed-layout printable order: shop header,
// prescription table, line-item table and financial summary.
type OrderDocument struct {
	Shop         Shop
	OrderNumber  string
	ClientName   string
	ClientPhone  string
	AcceptDate   string // DD.MM.YYYY
	ReadyDate    string // DD.MM.YYYY
	StatusLabel  string
	Prescription Prescription
	Lines        []DocumentLine
	Total        string
	Paid         string
	Debt         string
	Currency     string
}

// DocumentLine is one row of the line-item table.
type DocumentLine struct {
	Name     string
	Quantity string
	Price    string
	Discount string
	Total    string
}

func (s *documentService) BuildDocument(o Order) OrderDocument {
	lines := make([]DocumentLine, 0, len(o.Items))
	for _, li := range o.Items {
		lines = append(lines, DocumentLine{
			Name:     li.Name,
			Quantity: li.Quantity.String(),
			Price:    li.Price.String(),
			Discount: li.Discount.String(),
			Total:    formatMoney(ItemAmount(li)),
		})
	}
	return OrderDocument{
		Shop:         s.shop,
		OrderNumber:  o.OrderNumber,
		ClientName:   o.ClientName,
		ClientPhone:  o.ClientPhone,
		AcceptDate:   FormatDisplayDate(o.AcceptDate),
		ReadyDate:    FormatDisplayDate(o.ReadyDate),
		StatusLabel:  o.Status.Label(),
		Prescription: o.Prescription,
		Lines:        lines,
		Total:        formatMoney(o.TotalAmount),
		Paid:         formatMoney(o.PaidAmount),
		Debt:         formatMoney(o.DebtAmount),
		Currency:     s.shop.Currency,
	}
}

func formatMoney(d decimal.Decimal) string { return d.StringFixed(2) }

// FormatDisplayDate turns YYYY-MM-DD into DD.MM.YYYY. Empty dates render as
// "Не указана"; anything unparseable is returned unchanged.
func FormatDisplayDate(s string) string {
	if s == "" {
		return "Не указана"
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02.01.2006")
}
