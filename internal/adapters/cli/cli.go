package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"optics-shop/internal/app"
)

// ErrUsage is returned for unknown commands and missing arguments.
var ErrUsage = errors.New("usage")

const commands = "orders, order, add-order, status, delete-order, clients, add-client, inventory, stock, dashboard, finance, export, share, schema"

// Run executes a one-shot CLI command. args is os.Args[1:]; the first element
// is the subcommand name. add-order reads an order as JSON from in.
func Run(ctx context.Context, svc app.ApplicationService, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: app <command>\nAvailable: %s", ErrUsage, commands)
	}

	switch args[0] {
	case "orders", "o":
		var status *string
		if len(args) > 1 {
			status = &args[1]
		}
		result, err := svc.ListOrders(ctx, status)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		printOrders(out, result)

	case "order":
		id, err := intArg(args, 1, "app order <id>")
		if err != nil {
			return err
		}
		result, err := svc.GetOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		printOrder(out, result)

	case "add-order":
		var req app.OrderRequest
		if err := json.NewDecoder(in).Decode(&req); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		result, err := svc.CreateOrder(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		fmt.Fprintf(out, "Order %s created (id %d).\n", result.Order.OrderNumber, result.Order.ID)

	case "status":
		id, err := intArg(args, 1, "app status <id> <new|in-progress|ready|delivered>")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("%w: app status <id> <new|in-progress|ready|delivered>", ErrUsage)
		}
		result, err := svc.SetOrderStatus(ctx, id, args[2])
		if err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}
		fmt.Fprintf(out, "Order %s is now %s.\n", result.Order.OrderNumber, result.Order.Status.Label())

	case "delete-order":
		id, err := intArg(args, 1, "app delete-order <id>")
		if err != nil {
			return err
		}
		if err := svc.DeleteOrder(ctx, id); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		fmt.Fprintf(out, "Order %d deleted.\n", id)

	case "clients", "c":
		term := strings.Join(args[1:], " ")
		result, err := svc.ListClients(ctx, term)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		printClients(out, result)

	case "add-client":
		if len(args) < 3 {
			return fmt.Errorf("%w: app add-client <name> <phone> [email]", ErrUsage)
		}
		req := app.ClientRequest{Name: args[1], Phone: args[2]}
		if len(args) > 3 {
			req.Email = args[3]
		}
		result, err := svc.CreateClient(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to add client: %w", err)
		}
		fmt.Fprintf(out, "Client %s added (id %d).\n", result.Client.Name, result.Client.ID)

	case "inventory", "inv", "i":
		result, err := svc.ListInventory(ctx)
		if err != nil {
			return fmt.Errorf("failed to list inventory: %w", err)
		}
		printInventory(out, result)

	case "stock":
		id, err := intArg(args, 1, "app stock <id> <quantity>")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("%w: app stock <id> <quantity>", ErrUsage)
		}
		result, err := svc.SetStockQuantity(ctx, id, args[2])
		if err != nil {
			return fmt.Errorf("failed to set quantity: %w", err)
		}
		fmt.Fprintf(out, "%s: %d pcs (%s).\n", result.Item.Name, result.Item.Quantity, result.Card.Stock)

	case "dashboard", "dash":
		result, err := svc.GetDashboard(ctx)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		d := result.Dashboard
		fmt.Fprintf(out, "New: %d  In progress: %d  Ready: %d\n", d.NewCount, d.InProgressCount, d.ReadyCount)
		fmt.Fprintf(out, "Today's revenue: %s\n", d.TodayRevenue.StringFixed(2))
		if result.Degraded {
			fmt.Fprintln(out, "WARNING: changes are not being saved.")
		}

	case "finance", "fin":
		result, err := svc.GetFinance(ctx)
		if err != nil {
			return fmt.Errorf("failed to load finance: %w", err)
		}
		f := result.Finance
		fmt.Fprintf(out, "Revenue: %s\nEstimated profit: %s\nOrders: %d\n",
			f.Revenue.StringFixed(2), f.EstimatedProfit.StringFixed(2), f.OrderCount)

	case "export":
		id, err := intArg(args, 1, "app export <id> [html|jpeg|pdf]")
		if err != nil {
			return err
		}
		format := ""
		if len(args) > 2 {
			format = args[2]
		}
		started, err := svc.ExportOrder(ctx, id, format)
		if err != nil {
			return fmt.Errorf("failed to start export: %w", err)
		}
		result, err := svc.WaitExport(ctx, started.Task.ID)
		if err != nil {
			return fmt.Errorf("export interrupted: %w", err)
		}
		if result.Task.Error != "" {
			return fmt.Errorf("export %s: %s", result.Task.Status, result.Task.Error)
		}
		fmt.Fprintf(out, "Exported %s (%d bytes).\n", result.Task.Key, result.Task.Size)

	case "share":
		id, err := intArg(args, 1, "app share <id>")
		if err != nil {
			return err
		}
		result, err := svc.ShareOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to build share link: %w", err)
		}
		fmt.Fprintln(out, result.Link)

	case "schema":
		schema, err := svc.SnapshotSchema(ctx)
		if err != nil {
			return fmt.Errorf("failed to build schema: %w", err)
		}
		_, _ = out.Write(schema)
		fmt.Fprintln(out)

	default:
		return fmt.Errorf("%w: unknown command %s\nAvailable: %s", ErrUsage, args[0], commands)
	}
	return nil
}

func intArg(args []string, i int, usage string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %s (got %q)", ErrUsage, usage, args[i])
	}
	return n, nil
}

func printOrders(out io.Writer, result *app.OrderListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %-4s %-11s %-28s %-11s %12s  %s\n", "ID", "NUMBER", "CLIENT", "READY", "TOTAL", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, c := range result.Cards {
		fmt.Fprintf(out, "  %-4d %-11s %-28s %-11s %12s  %s\n",
			c.ID, c.OrderNumber, truncate(c.ClientName, 28), c.ReadyDate, c.Total, c.StatusLabel)
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %d order(s)\n", len(result.Cards))
}

func printOrder(out io.Writer, result *app.OrderResult) {
	doc := result.Document
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  ORDER %s  [%s]\n", doc.OrderNumber, doc.StatusLabel)
	fmt.Fprintf(out, "  Client   : %s, %s\n", doc.ClientName, doc.ClientPhone)
	fmt.Fprintf(out, "  Accepted : %s   Ready: %s\n", doc.AcceptDate, doc.ReadyDate)
	p := doc.Prescription
	fmt.Fprintf(out, "  OD sph %s cyl %s ax %s | OS sph %s cyl %s ax %s | PD %s\n",
		dash(p.OD.Sph), dash(p.OD.Cyl), dash(p.OD.Ax), dash(p.OS.Sph), dash(p.OS.Cyl), dash(p.OS.Ax), dash(p.PD))
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, l := range doc.Lines {
		fmt.Fprintf(out, "  %-28s %4s x %10s -%3s%% %10s\n", truncate(l.Name, 28), l.Quantity, l.Price, l.Discount, l.Total)
	}
	fmt.Fprintln(out, strings.Repeat("-", 62))
	fmt.Fprintf(out, "  Total %s  Paid %s  Debt %s %s\n", doc.Total, doc.Paid, doc.Debt, doc.Currency)
	if rec := result.Reconciliation; rec != nil && (rec.TotalDrift || rec.DebtDrift) {
		fmt.Fprintf(out, "  NOTE: lines add up to %s, expected debt %s\n",
			rec.DerivedTotal.StringFixed(2), rec.DerivedDebt.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 62))
}

func printClients(out io.Writer, result *app.ClientListResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-4s %-28s %-18s %6s %12s\n", "ID", "NAME", "PHONE", "ORDERS", "SPENT")
	fmt.Fprintln(out, strings.Repeat("-", 74))
	for _, c := range result.Cards {
		fmt.Fprintf(out, "  %-4d %-28s %-18s %6d %12s\n", c.ID, truncate(c.Name, 28), c.Phone, c.OrderCount, c.TotalSpent)
	}
}

func printInventory(out io.Writer, result *app.InventoryListResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-4s %-26s %-11s %5s %10s %10s  %s\n", "ID", "NAME", "CATEGORY", "QTY", "COST", "PRICE", "STOCK")
	fmt.Fprintln(out, strings.Repeat("-", 84))
	for _, c := range result.Cards {
		fmt.Fprintf(out, "  %-4d %-26s %-11s %5d %10s %10s  %s\n",
			c.ID, truncate(c.Name, 26), c.CategoryLabel, c.Quantity, c.PurchasePrice, c.SellingPrice, c.Stock)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
