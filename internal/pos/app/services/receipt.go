package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"comanda/internal/pos/domain/models"
)

// Receipts are plain text, 32 columns, ready for a kitchen/bill printer.
// Printer control codes are the print worker's business, not ours.
const receiptWidth = 32

func centered(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= receiptWidth {
		return s
	}
	pad := (receiptWidth - n) / 2
	return strings.Repeat(" ", pad) + s
}

// truncate cuts on runes; product and table names come from operators and
// are not ASCII-only.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func itemLine(item models.OrderItem) string {
	name := item.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", item.ProductID)
	}
	return fmt.Sprintf("%dx %-20s $%7.2f", item.Quantity, truncate(name, 20), item.Subtotal())
}

// formatOrderReceipt renders the kitchen slip printed when an order is created.
func formatOrderReceipt(table models.Table, order models.Order) string {
	lines := []string{
		centered(table.Name),
		strings.Repeat("=", receiptWidth),
		fmt.Sprintf("ORDER #%d", order.ID),
		"Date: " + order.CreatedAt.Format("02/01/2006 15:04"),
		strings.Repeat("-", receiptWidth),
		"Items:",
	}
	for _, item := range order.Items {
		lines = append(lines, itemLine(item))
		if item.Comment != "" {
			lines = append(lines, "   note: "+item.Comment)
		}
	}
	lines = append(lines,
		strings.Repeat("-", receiptWidth),
		fmt.Sprintf("Item count: %d", order.TotalItems()),
		fmt.Sprintf("Total: $%.2f", order.TotalAmount()),
	)
	if order.Comment != "" {
		lines = append(lines,
			strings.Repeat("-", receiptWidth),
			"note: "+order.Comment,
		)
	}
	lines = append(lines, strings.Repeat("=", receiptWidth), "")
	return strings.Join(lines, "\n")
}

// formatBillReceipt renders the bill printed when a table settles. Cancelled
// orders are not in the settlement so they never reach the paper.
func formatBillReceipt(settlement models.Settlement, closedAt time.Time) string {
	table := settlement.Table
	lines := []string{
		centered(table.Name),
		strings.Repeat("=", receiptWidth),
		"BILL",
		"Date: " + closedAt.Format("02/01/2006 15:04"),
		"Closed by: " + table.ClosedBy,
		strings.Repeat("-", receiptWidth),
		"Orders:",
	}
	for _, order := range settlement.Orders {
		lines = append(lines, fmt.Sprintf("Order #%d - %s", order.ID, order.Status))
		for _, item := range order.Items {
			lines = append(lines, "  "+itemLine(item))
			if item.Comment != "" {
				lines = append(lines, "     note: "+item.Comment)
			}
		}
	}
	lines = append(lines,
		strings.Repeat("-", receiptWidth),
		fmt.Sprintf("Order count: %d", settlement.OrdersCount),
		fmt.Sprintf("Subtotal: $%.2f", settlement.Total),
	)
	if settlement.ServiceTaxAmount > 0 {
		lines = append(lines, fmt.Sprintf("Service tax (10%%): $%.2f", settlement.ServiceTaxAmount))
	}
	lines = append(lines,
		fmt.Sprintf("Total: $%.2f", settlement.GrandTotal),
		strings.Repeat("=", receiptWidth),
		"",
	)
	return strings.Join(lines, "\n")
}
