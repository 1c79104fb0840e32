package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"optics-shop/internal/app"
	"optics-shop/internal/core"

	"github.com/shopspring/decimal"
)

// newOrderWizard runs an interactive order creation session.
func newOrderWizard(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService) error {
	var req app.OrderRequest

	req.ClientName = prompt(reader, out, "Client name: ")
	if req.ClientName == "" {
		fmt.Fprintln(out, "Order creation cancelled.")
		return nil
	}
	req.ClientPhone = prompt(reader, out, "Phone: ")
	req.AcceptDate = prompt(reader, out, "Accept date (YYYY-MM-DD, blank for today): ")
	req.ReadyDate = prompt(reader, out, "Ready date (YYYY-MM-DD, blank for +7 days): ")

	fmt.Fprintln(out, "Prescription, format: <sph> <cyl> <ax> (blank to skip)")
	req.Prescription.OD = eyeRecord(prompt(reader, out, "  OD: "))
	req.Prescription.OS = eyeRecord(prompt(reader, out, "  OS: "))
	req.Prescription.PD = prompt(reader, out, "  PD: ")

	fmt.Fprintln(out, "Enter order lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(out, "Format per line: <quantity> <price> [discount%] <name>")
	fmt.Fprintln(out, "  Example: 1 15000 10 Оправа Ray-Ban")
	fmt.Fprintln(out, "A blank line also finishes.")
	for n := 1; ; {
		raw := prompt(reader, out, fmt.Sprintf("  Line %d: ", n))
		lower := strings.ToLower(raw)
		if lower == "cancel" {
			fmt.Fprintln(out, "Order creation cancelled.")
			return nil
		}
		if lower == "done" || raw == "" {
			break
		}
		item, err := parseLine(raw)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		req.Items = append(req.Items, item)
		n++
	}

	total := core.OrderTotal(core.CleanItems(toLineItems(req.Items)))
	fmt.Fprintf(out, "Total: %s\n", total.StringFixed(2))
	for {
		raw := prompt(reader, out, "Paid amount [0]: ")
		if raw == "" {
			req.PaidAmount = decimal.Zero
			break
		}
		paid, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			fmt.Fprintln(out, "  Invalid amount.")
			continue
		}
		req.PaidAmount = paid
		break
	}

	result, err := svc.CreateOrder(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nOrder %s created (ID: %d). Debt: %s\n",
		result.Order.OrderNumber, result.Order.ID, result.Order.DebtAmount.StringFixed(2))
	return nil
}

// parseLine reads "<quantity> <price> [discount] <name>". A third numeric
// token is the discount; everything after the numbers is the name.
func parseLine(raw string) (app.LineItemInput, error) {
	parts := strings.Fields(raw)
	if len(parts) < 3 {
		return app.LineItemInput{}, fmt.Errorf("invalid format, use: <quantity> <price> [discount%%] <name>")
	}
	qty, err := decimal.NewFromString(parts[0])
	if err != nil || !qty.IsPositive() {
		return app.LineItemInput{}, fmt.Errorf("invalid quantity %q", parts[0])
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(parts[1], ",", "."))
	if err != nil || price.IsNegative() {
		return app.LineItemInput{}, fmt.Errorf("invalid price %q", parts[1])
	}
	item := app.LineItemInput{Quantity: qty, Price: decimal.NewNullDecimal(price), Discount: decimal.Zero}
	rest := parts[2:]
	if d, err := decimal.NewFromString(rest[0]); err == nil && len(rest) > 1 {
		item.Discount = d
		rest = rest[1:]
	}
	item.Name = strings.Join(rest, " ")
	return item, nil
}

func eyeRecord(raw string) core.EyeRecord {
	f := strings.Fields(raw)
	var e core.EyeRecord
	if len(f) > 0 {
		e.Sph = f[0]
	}
	if len(f) > 1 {
		e.Cyl = f[1]
	}
	if len(f) > 2 {
		e.Ax = f[2]
	}
	return e
}

func toLineItems(in []app.LineItemInput) []core.LineItem {
	out := make([]core.LineItem, 0, len(in))
	for _, it := range in {
		if li, ok := it.LineItem(); ok {
			out = append(out, li)
		}
	}
	return out
}

func prompt(reader *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	s, _ := reader.ReadString('\n')
	return strings.TrimSpace(s)
}

func confirm(reader *bufio.Reader, out io.Writer, label string) bool {
	choice := strings.ToLower(prompt(reader, out, label))
	return choice == "y" || choice == "yes"
}
