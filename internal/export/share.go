package export

import (
	"fmt"
	"net/url"
	"strings"

	"optics-shop/internal/core"
)

// ShareMessage is the greeting sent to the client with their order.
func ShareMessage(o core.Order, shop core.Shop) string {
	currency := shop.Currency
	if currency == "" {
		currency = core.DefaultShop.Currency
	}
	return fmt.Sprintf("Здравствуйте, %s!\n\nВаш заказ №%s принят.\nОбщая сумма: %s %s\n\nДетали заказа во вложении.\n\n%s\n%s\nWhatsApp: %s",
		o.ClientName, o.OrderNumber, o.TotalAmount.String(), currency, shop.Name, shop.Address, shop.WhatsApp)
}

// CleanPhone keeps digits and '+' only.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, phone)
}

// ShareLink builds the wa.me deep link that opens a chat with the order's
// client, prefilled with ShareMessage.
func ShareLink(o core.Order, shop core.Shop) (string, error) {
	phone := CleanPhone(o.ClientPhone)
	if phone == "" {
		return "", fmt.Errorf("order %d client phone: %w", o.ID, core.ErrValidationIncomplete)
	}
	text := strings.ReplaceAll(url.QueryEscape(ShareMessage(o, shop)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, text), nil
}
