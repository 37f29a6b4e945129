package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderFinished  OrderStatus = "finished"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transition is expected. A
// finished order is still allowed to move to cancelled.
func (s OrderStatus) Terminal() bool {
	return s == OrderCancelled
}

type Product struct {
	ID            int64
	Name          string
	Price         float64
	StockQuantity int
	IsActive      bool
}

type Table struct {
	ID        int64
	Name      string
	IsClosed  bool
	RoomID    *int64
	CreatedBy string
	CreatedAt time.Time
	ClosedBy  string
	ClosedAt  *time.Time
}

type Order struct {
	ID          int64
	TableID     int64
	Status      OrderStatus
	Comment     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   string
	UpdatedAt   *time.Time
	CancelledBy string
	CancelledAt *time.Time
	Items       []OrderItem
}

// TotalAmount is derived from the current items; it is never stored so it
// cannot drift from the item set.
func (o Order) TotalAmount() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// TotalItems is the summed quantity over the current items.
func (o Order) TotalItems() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	// ProductName is read-only context carried for receipts and error
	// messages; the authoritative name lives on Product.
	ProductName string
	Quantity    int
	UnitPrice   float64
	Comment     string
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// PrintJob is the work item handed to the external print queue. The content
// is plain receipt text, no printer control codes.
type PrintJob struct {
	Type    string `json:"type"` // "order" or "bill"
	TableID int64  `json:"table_id"`
	OrderID *int64 `json:"order_id,omitempty"`
	Content string `json:"content"`
}

const (
	PrintJobOrder = "order"
	PrintJobBill  = "bill"
)

// Settlement is the transient result of closing a table.
type Settlement struct {
	Table            Table
	Orders           []Order // non-cancelled orders of the table
	OrdersCount      int
	Total            float64
	ServiceTaxAmount float64
	GrandTotal       float64
	// GenerateInvoice is echoed to the caller; fiscal invoice emission is
	// handled downstream, not by the settlement itself.
	GenerateInvoice bool
}
