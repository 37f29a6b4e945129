package dto

import (
	"time"

	"comanda/internal/pos/domain/models"
)

type TableRequest struct {
	Name   string `json:"name"`
	RoomID *int64 `json:"room_id,omitempty"`
}

type TableResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	IsClosed  bool       `json:"is_closed"`
	RoomID    *int64     `json:"room_id,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedBy  string     `json:"closed_by,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func NewTableResponse(t models.Table) TableResponse {
	return TableResponse{
		ID:        t.ID,
		Name:      t.Name,
		IsClosed:  t.IsClosed,
		RoomID:    t.RoomID,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		ClosedBy:  t.ClosedBy,
		ClosedAt:  t.ClosedAt,
	}
}

type CloseTableRequest struct {
	ServiceTax      bool `json:"service_tax"`
	GenerateInvoice bool `json:"generate_invoice"`
}

type CloseTableResponse struct {
	Message          string          `json:"message"`
	TableID          int64           `json:"table_id"`
	OrdersCount      int             `json:"orders_count"`
	Orders           []OrderResponse `json:"orders"`
	TotalAmount      float64         `json:"total_amount"`
	ServiceTaxAmount float64         `json:"service_tax_amount"`
	GrandTotal       float64         `json:"grand_total"`
	GenerateInvoice  bool            `json:"generate_invoice"`
	ClosedBy         string          `json:"closed_by"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}

func NewCloseTableResponse(s models.Settlement) CloseTableResponse {
	orders := make([]OrderResponse, 0, len(s.Orders))
	for _, order := range s.Orders {
		orders = append(orders, NewOrderResponse(order))
	}
	return CloseTableResponse{
		Message:          "table closed",
		TableID:          s.Table.ID,
		OrdersCount:      s.OrdersCount,
		Orders:           orders,
		TotalAmount:      s.Total,
		ServiceTaxAmount: s.ServiceTaxAmount,
		GrandTotal:       s.GrandTotal,
		GenerateInvoice:  s.GenerateInvoice,
		ClosedBy:         s.Table.ClosedBy,
		ClosedAt:         s.Table.ClosedAt,
	}
}
