package core

// OrderCard is the list-view projection of an order.
type OrderCard struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	ClientName  string      `json:"clientName"`
	ClientPhone string      `json:"clientPhone"`
	AcceptDate  string      `json:"acceptDate"`
	ReadyDate   string      `json:"readyDate"`
	Total       string      `json:"total"`
	Status      OrderStatus `json:"status"`
	StatusLabel string      `json:"statusLabel"`
	StatusClass string      `json:"statusClass"`
}

// ClientCard is the list-view projection of a client and their orders.
type ClientCard struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	OrderCount int    `json:"orderCount"`
	TotalSpent string `json:"totalSpent"`
}

// InventoryCard is the list-view projection of an inventory item.
type InventoryCard struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Category      Category   `json:"category"`
	CategoryLabel string     `json:"categoryLabel"`
	Quantity      int        `json:"quantity"`
	Stock         StockClass `json:"stock"`
	StockClass    string     `json:"stockClass"`
	PurchasePrice string     `json:"purchasePrice"`
	SellingPrice  string     `json:"sellingPrice"`
}

// OrderCards projects orders for the list view. The total shown is always
// derived from the lines, not the stored TotalAmount.
func OrderCards(orders []Order) []OrderCard {
	cards := make([]OrderCard, 0, len(orders))
	for _, o := range orders {
		cards = append(cards, OrderCard{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			ClientName:  o.ClientName,
			ClientPhone: o.ClientPhone,
			AcceptDate:  FormatDisplayDate(o.AcceptDate),
			ReadyDate:   FormatDisplayDate(o.ReadyDate),
			Total:       formatMoney(OrderTotal(o.Items)),
			Status:      o.Status,
			StatusLabel: o.Status.Label(),
			StatusClass: o.Status.CSSClass(),
		})
	}
	return cards
}

func ClientCards(summaries []ClientSummary) []ClientCard {
	cards := make([]ClientCard, 0, len(summaries))
	for _, s := range summaries {
		email := s.Client.Email
		if email == "" {
			email = "Не указан"
		}
		cards = append(cards, ClientCard{
			ID:         s.Client.ID,
			Name:       s.Client.Name,
			Phone:      s.Client.Phone,
			Email:      email,
			OrderCount: s.OrderCount,
			TotalSpent: formatMoney(s.TotalSpent),
		})
	}
	return cards
}

func InventoryCards(items []InventoryItem) []InventoryCard {
	cards := make([]InventoryCard, 0, len(items))
	for _, it := range items {
		class := ClassifyStock(it.Quantity)
		cards = append(cards, InventoryCard{
			ID:            it.ID,
			Name:          it.Name,
			Category:      it.Category,
			CategoryLabel: it.Category.Label(),
			Quantity:      it.Quantity,
			Stock:         class,
			StockClass:    class.CSSClass(),
			PurchasePrice: formatMoney(it.PurchasePrice),
			SellingPrice:  formatMoney(it.SellingPrice),
		})
	}
	return cards
}
