package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"optics-shop/internal/adapters/cli"
	"optics-shop/internal/app"
)

var errExit = errors.New("exit")

// Run starts the interactive loop. Slash commands take the same arguments as
// the one-shot CLI; /new-order and /delete-order are interactive.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	fmt.Fprintln(out, "Optics shop")
	if h, err := svc.Health(ctx); err == nil {
		fmt.Fprintf(out, "Storage: %s  Exports: %s\n", h.StorageDriver, h.BlobDriver)
		if h.Degraded {
			fmt.Fprintln(out, "WARNING: storage is unavailable, changes are kept in memory only.")
		}
	}
	fmt.Fprintln(out, "Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		if dispErr := dispatch(ctx, svc, reader, out, input); dispErr != nil {
			if errors.Is(dispErr, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", dispErr)
		}
		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, input string) error {
	tokens, err := splitArgs(strings.TrimPrefix(input, "/"))
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])

	switch cmd {
	case "exit", "quit", "q":
		return errExit
	case "help", "h", "?":
		printHelp(out)
		return nil
	case "new-order":
		return newOrderWizard(ctx, reader, out, svc)
	case "delete-order":
		if len(tokens) < 2 {
			fmt.Fprintln(out, "Usage: /delete-order <id>")
			return nil
		}
		if !confirm(reader, out, fmt.Sprintf("Delete order %s? (y/n): ", tokens[1])) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	tokens[0] = cmd
	return cli.Run(ctx, svc, tokens, reader, out)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Orders:    /orders [status]  /order <id>  /new-order  /status <id> <status>")
	fmt.Fprintln(out, "           /delete-order <id>  /export <id> [html|jpeg|pdf]  /share <id>")
	fmt.Fprintln(out, "Clients:   /clients [term]  /add-client \"<name>\" <phone> [email]")
	fmt.Fprintln(out, "Inventory: /inventory  /stock <id> <qty>")
	fmt.Fprintln(out, "Reports:   /dashboard  /finance  /schema")
	fmt.Fprintln(out, "Statuses:  new, in-progress, ready, delivered")
	fmt.Fprintln(out, "/exit to quit")
}

// splitArgs splits on whitespace and keeps double-quoted runs together, so
// client names with spaces can be passed as one argument.
func splitArgs(s string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		out = append(out, cur.String())
	}
	return out, nil
}
