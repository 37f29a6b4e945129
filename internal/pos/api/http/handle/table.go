package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"comanda/internal/pos/app/services"
	"comanda/internal/pos/domain/dto"
	"comanda/pkg/logger"
)

type TableHandler struct {
	tableService *services.TableService
	mylog        logger.Logger
}

func NewTableHandler(tableService *services.TableService, mylog logger.Logger) *TableHandler {
	return &TableHandler{
		tableService: tableService,
		mylog:        mylog,
	}
}

func (th *TableHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.TableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		table, err := th.tableService.Create(r.Context(), req, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.NewTableResponse(table))
	}
}

func (th *TableHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isClosed, err := strconv.ParseBool(r.URL.Query().Get("is_closed"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("is_closed query parameter is required (true/false)"))
			return
		}

		tables, err := th.tableService.List(r.Context(), isClosed)
		if err != nil {
			serviceError(w, err)
			return
		}
		out := make([]dto.TableResponse, 0, len(tables))
		for _, t := range tables {
			out = append(out, dto.NewTableResponse(t))
		}
		jsonResponse(w, http.StatusOK, out)
	}
}

func (th *TableHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := pathID(r, "table_id")
		if err != nil {
			serviceError(w, err)
			return
		}
		table, err := th.tableService.Get(r.Context(), tableID)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewTableResponse(table))
	}
}

func (th *TableHandler) Close() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := pathID(r, "table_id")
		if err != nil {
			serviceError(w, err)
			return
		}
		// An empty body closes with the defaults: no tax, no invoice.
		var req dto.CloseTableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		settlement, err := th.tableService.Close(r.Context(), tableID, req, Actor(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		th.mylog.Action("table_closed").Info("table closed via API",
			"table_id", tableID, "grand_total", settlement.GrandTotal)
		jsonResponse(w, http.StatusOK, dto.NewCloseTableResponse(settlement))
	}
}

func (th *TableHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, err := pathID(r, "table_id")
		if err != nil {
			serviceError(w, err)
			return
		}
		if err := th.tableService.Delete(r.Context(), tableID, Actor(r.Context())); err != nil {
			serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
