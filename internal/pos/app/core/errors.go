package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrItemNotFound    = errors.New("order item not found")
	ErrTableNotFound   = errors.New("table not found")

	// ErrTableClosed rejects new orders against a settled table.
	ErrTableClosed = errors.New("table is closed")
	// ErrTableAlreadyClosed rejects a second close of the same table.
	ErrTableAlreadyClosed = errors.New("table already closed")
	// ErrTableNameTaken rejects opening a second table under an open name.
	ErrTableNameTaken = errors.New("a table with this name is already open")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAction     = errors.New("invalid item action")
	ErrForbidden         = errors.New("operation not permitted")
)

// InsufficientStockError carries enough context for the operator to see what
// blocked the sale: the product, what is left and what was asked for.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// BatchStockError aggregates every failing item of an order-creation request.
// Creation is all-or-nothing, so the caller sees all offenders at once.
type BatchStockError struct {
	Failures []error
}

func (e *BatchStockError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, err := range e.Failures {
		msgs = append(msgs, err.Error())
	}
	return "one or more products cannot be ordered: " + strings.Join(msgs, "; ")
}

func (e *BatchStockError) Unwrap() []error {
	return e.Failures
}
