package hrest

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"banking-service/internal/handler/facade"
	"banking-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type BankingRestHandler struct {
	facade *facade.Facade
	store  Pinger
	logger *zap.Logger
}

func NewBankingRestHandler(f *facade.Facade, store Pinger, logger *zap.Logger) *BankingRestHandler {
	return &BankingRestHandler{facade: f, store: store, logger: logger}
}

// Dispatch serves /api/{op}. Parameters come from the query string and from a
// form-encoded or JSON body; body values win over query values.
func (h *BankingRestHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")

	params, err := readParams(w, r)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, facade.Result{
			"status":  "error",
			"error":   "MALFORMED_REQUEST",
			"message": err.Error(),
		})
		return
	}

	reply := h.facade.Dispatch(r.Context(), op, params)
	response.JSON(w, HTTPStatus(reply.Code), reply.Result)
}

func (h *BankingRestHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		response.Error(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	response.OK(w, map[string]string{"store": "ok"})
}

// HTTPStatus maps an outcome class to a response status.
func HTTPStatus(c facade.Code) int {
	switch c {
	case facade.CodeOK:
		return http.StatusOK
	case facade.CodeMalformed:
		return http.StatusBadRequest
	case facade.CodeNotFound:
		return http.StatusNotFound
	case facade.CodeAlreadyExists, facade.CodeConflict:
		return http.StatusConflict
	case facade.CodeRejected:
		return http.StatusUnprocessableEntity
	case facade.CodeUnauthenticated:
		return http.StatusUnauthorized
	case facade.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func readParams(w http.ResponseWriter, r *http.Request) (facade.Params, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	params := facade.Params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if r.Method != http.MethodPost {
		return params, nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var body map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		for k, v := range body {
			switch val := v.(type) {
			case string:
				params[k] = val
			case json.Number:
				params[k] = val.String()
			case nil:
			default:
				b, _ := json.Marshal(val)
				params[k] = string(b)
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}
	return params, nil
}
