package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"comanda/internal/pos/app/services"
	"comanda/internal/pos/domain/dto"
	"comanda/pkg/logger"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := pathID(r, "table_id")
		if err != nil {
			serviceError(w, err)
			return
		}
		var req dto.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		order, err := oh.orderService.Create(r.Context(), tableID, req, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		oh.mylog.Action("order_created").Info("order created via API",
			"table_id", tableID, "order_id", order.ID)
		jsonResponse(w, http.StatusCreated, dto.NewOrderResponse(order))
	}
}

func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := pathID(r, "table_id")
		if err != nil {
			serviceError(w, err)
			return
		}
		orders, err := oh.orderService.ListByTable(r.Context(), tableID)
		if err != nil {
			serviceError(w, err)
			return
		}
		out := make([]dto.OrderResponse, 0, len(orders))
		for _, order := range orders {
			out = append(out, dto.NewOrderResponse(order))
		}
		jsonResponse(w, http.StatusOK, out)
	}
}

func (oh *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, orderID, err := orderPath(r)
		if err != nil {
			serviceError(w, err)
			return
		}
		order, err := oh.orderService.Get(r.Context(), tableID, orderID)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderResponse(order))
	}
}

func (oh *OrderHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, orderID, err := orderPath(r)
		if err != nil {
			serviceError(w, err)
			return
		}
		var req dto.OrderUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		order, err := oh.orderService.Update(r.Context(), tableID, orderID, req, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderResponse(order))
	}
}

func (oh *OrderHandler) Finish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, orderID, err := orderPath(r)
		if err != nil {
			serviceError(w, err)
			return
		}
		order, err := oh.orderService.Finish(r.Context(), tableID, orderID, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderResponse(order))
	}
}

func (oh *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, orderID, err := orderPath(r)
		if err != nil {
			serviceError(w, err)
			return
		}
		order, err := oh.orderService.Cancel(r.Context(), tableID, orderID, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderResponse(order))
	}
}

func (oh *OrderHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, orderID, err := orderPath(r)
		if err != nil {
			serviceError(w, err)
			return
		}
		if err := oh.orderService.Delete(r.Context(), tableID, orderID, Actor(r.Context())); err != nil {
			serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func orderPath(r *http.Request) (tableID, orderID int64, err error) {
	tableID, err = pathID(r, "table_id")
	if err != nil {
		return 0, 0, err
	}
	orderID, err = pathID(r, "order_id")
	if err != nil {
		return 0, 0, err
	}
	return tableID, orderID, nil
}
