package dto

import (
	"time"

	"comanda/internal/pos/domain/models"
)

type OrderRequest struct {
	Comment string           `json:"comment,omitempty"`
	Items   []OrderItemInput `json:"items"`
}

type OrderItemInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Comment   string  `json:"comment,omitempty"`
}

const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
)

// ItemAction is one mutation of an order's item set. Which fields are
// required depends on Action: add needs product_id/quantity/unit_price,
// update and remove need item_id.
type ItemAction struct {
	Action    string   `json:"action"`
	ItemID    int64    `json:"item_id,omitempty"`
	ProductID int64    `json:"product_id,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Comment   *string  `json:"comment,omitempty"`
}

type OrderUpdateRequest struct {
	Comment     *string             `json:"comment,omitempty"`
	Status      *models.OrderStatus `json:"status,omitempty"`
	ItemActions []ItemAction        `json:"items_actions,omitempty"`
}

type OrderItemOut struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Comment   string  `json:"comment,omitempty"`
}

type OrderResponse struct {
	ID          int64              `json:"id"`
	TableID     int64              `json:"table_id"`
	Status      models.OrderStatus `json:"status"`
	Comment     string             `json:"comment,omitempty"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedBy   string             `json:"updated_by,omitempty"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
	CancelledBy string             `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	Items       []OrderItemOut     `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	TotalItems  int                `json:"total_items"`
}

func NewOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderItemOut, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemOut{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Comment:   item.Comment,
		})
	}
	return OrderResponse{
		ID:          order.ID,
		TableID:     order.TableID,
		Status:      order.Status,
		Comment:     order.Comment,
		CreatedBy:   order.CreatedBy,
		CreatedAt:   order.CreatedAt,
		UpdatedBy:   order.UpdatedBy,
		UpdatedAt:   order.UpdatedAt,
		CancelledBy: order.CancelledBy,
		CancelledAt: order.CancelledAt,
		Items:       items,
		TotalAmount: order.TotalAmount(),
		TotalItems:  order.TotalItems(),
	}
}
