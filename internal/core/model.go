package core

import "strings"

// OrderStatus is the workshop progress of an order.
// The transition graph is flat: any status may be set from any other.
//
//	new → in-progress → ready → delivered  (intended reading order only)
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "in-progress"
	StatusReady      OrderStatus = "ready"
	StatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists the statuses in display order.
var OrderStatuses = []OrderStatus{StatusNew, StatusInProgress, StatusReady, StatusDelivered}

// ParseOrderStatus returns the status named by s, or ErrInvalidStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", invalidStatus(s)
	}
	return st, nil
}

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReady, StatusDelivered:
		return true
	}
	return false
}

// Label is the shop-facing caption. Unknown values render as "new",
// which is how legacy records without a status were always shown.
func (s OrderStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "В работе"
	case StatusReady:
		return "Готов"
	case StatusDelivered:
		return "Выдан"
	default:
		return "Новый"
	}
}

// CSSClass is the badge class used by list views.
func (s OrderStatus) CSSClass() string {
	switch s {
	case StatusInProgress:
		return "status-progress"
	case StatusReady:
		return "status-ready"
	case StatusDelivered:
		return "status-delivered"
	default:
		return "status-new"
	}
}

// Category is the fixed inventory classification.
type Category string

const (
	CategoryFrames      Category = "frames"
	CategoryLenses      Category = "lenses"
	CategoryAccessories Category = "accessories"
)

// Categories lists the inventory categories in display order.
var Categories = []Category{CategoryFrames, CategoryLenses, CategoryAccessories}

// Valid reports whether c is one of the known inventory categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFrames, CategoryLenses, CategoryAccessories:
		return true
	}
	return false
}

// Label returns the display name of c, or c itself when it is unknown.
func (c Category) Label() string {
	switch c {
	case CategoryFrames:
		return "Оправы"
	case CategoryLenses:
		return "Линзы"
	case CategoryAccessories:
		return "Аксессуары"
	}
	return string(c)
}

// StockClass is the derived low/medium/good stock label. Never stored.
type StockClass string

const (
	StockLow    StockClass = "low"
	StockMedium StockClass = "medium"
	StockGood   StockClass = "good"
)

// CSSClass is the class used to colour stock quantities.
func (c StockClass) CSSClass() string { return "stock-" + string(c) }

// Shop identifies the business printed on order documents.
type Shop struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	WhatsApp  string `json:"whatsapp"`
	Instagram string `json:"instagram"`
	Currency  string `json:"currency"`
}

// DefaultShop is used when configuration leaves the shop identity empty.
var DefaultShop = Shop{
	Name:      "ОПТИКА СОНАТА",
	Address:   "Астана, Сыганак 32",
	WhatsApp:  "+77007430770",
	Instagram: "sonata.astana",
	Currency:  "KZT",
}
