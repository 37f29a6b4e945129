package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"comanda/internal/pos/app/core"
)

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func jsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}

// serviceError maps core errors onto HTTP statuses in one place so every
// handler reports failures the same way.
func serviceError(w http.ResponseWriter, err error) {
	var stockErr *core.InsufficientStockError
	var batchErr *core.BatchStockError

	switch {
	// Stock errors go first: a batch aggregate may wrap ErrProductNotFound
	// for one of its offenders, and the caller must still see the whole
	// aggregate as one 400, not a 404 for the first missing product.
	case errors.As(err, &stockErr),
		errors.As(err, &batchErr):
		jsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrOrderNotFound),
		errors.Is(err, core.ErrItemNotFound),
		errors.Is(err, core.ErrTableNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, core.ErrForbidden):
		jsonError(w, http.StatusForbidden, err)
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidAction),
		errors.Is(err, core.ErrInvalidTransition),
		errors.Is(err, core.ErrTableClosed),
		errors.Is(err, core.ErrTableAlreadyClosed),
		errors.Is(err, core.ErrTableNameTaken):
		jsonError(w, http.StatusBadRequest, err)
	default:
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return parseID(r.PathValue(name))
}
