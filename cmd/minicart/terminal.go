package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/stripe/stripe-go/v79"

	shop "goflare.io/minicart"
	"goflare.io/minicart/models"
)

// terminal is the presentation layer: it reads commands and renders the cart
// each time the session reports a change.
type terminal struct {
	svc shop.Service

	mu  sync.Mutex
	out *bufio.Writer
}

func newTerminal(svc shop.Service, out *bufio.Writer) *terminal {
	return &terminal{svc: svc, out: out}
}

// execute runs one command line. It returns false when the user quits.
func (t *terminal) execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit":
		return false
	case "help":
		t.printHelp()
	case "list":
		t.printCatalog(ctx)
	case "cart":
		t.printCart(t.svc.Snapshot(ctx))
	case "clear":
		t.svc.ClearCart(ctx)
	case "add", "remove":
		if len(fields) != 2 {
			t.printf("usage: %s <product id>\n", cmd)
			break
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			t.printf("invalid product id %q\n", fields[1])
			break
		}
		if cmd == "remove" {
			t.svc.RemoveFromCart(ctx, id)
			break
		}
		if _, err = t.svc.AddProduct(ctx, id); errors.Is(err, shop.ErrProductNotFound) {
			t.printf("no product with id %d\n", id)
		}
	default:
		t.printf("unknown command %q, type help\n", cmd)
	}
	return true
}

func (t *terminal) onCartChanged(_ context.Context, event *models.CartEvent) error {
	t.printCart(event.Cart, event.Summary)
	return nil
}

func (t *terminal) printHelp() {
	t.printf("commands: list | add <id> | remove <id> | clear | cart | help | quit\n")
}

func (t *terminal) printCatalog(ctx context.Context) {
	currency := t.svc.Summary(ctx).Currency

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "Products")
	for _, p := range t.svc.ListProducts(ctx) {
		fmt.Fprintf(t.out, "  [%d] %-16s %s\n", p.ID, p.Name, formatPrice(p.Price, currency))
	}
	_ = t.out.Flush()
}

func (t *terminal) printCart(c models.Cart, summary models.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, "Cart")
	if c.IsEmpty() {
		fmt.Fprintln(t.out, "  (empty)")
		_ = t.out.Flush()
		return
	}
	for _, item := range c.Items {
		fmt.Fprintf(t.out, "  %-16s x%-3d %s\n", item.Name, item.Quantity, formatPrice(item.Subtotal(), summary.Currency))
	}
	fmt.Fprintf(t.out, "  items: %d  total: %s\n", summary.ItemCount, formatPrice(summary.TotalPrice, summary.Currency))
	_ = t.out.Flush()
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
	_ = t.out.Flush()
}

func formatPrice(amount int64, currency stripe.Currency) string {
	return humanize.Comma(amount) + " " + strings.ToUpper(string(currency))
}
