package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"salesapi/internal/flow"
	"salesapi/internal/metrics"
	"salesapi/internal/ports"
	"salesapi/internal/types"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzhttp"
	log "github.com/sirupsen/logrus"
)

const (
	maxBodyBytes = 1 << 20

	filterQueryParam = "filter"
)

type Handler struct {
	Stores    ports.Stores
	Registrar *flow.Registrar
}

func NewHandler(stores ports.Stores, registrar *flow.Registrar) *Handler {
	return &Handler{
		Stores:    stores,
		Registrar: registrar,
	}
}

type createClientRequest struct {
	Name *string `json:"name"`
}

type createProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type createSaleRequest struct {
	ClientID  *string `json:"client_id"`
	ProductID *string `json:"product_id"`
	Quantity  *int    `json:"quantity"`
}

// errorBody is the payload of every non-2xx response.
type errorBody struct {
	Detail string `json:"detail"`
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	route := func(path string, methods []string, fn http.HandlerFunc) {
		for _, m := range methods {
			metrics.RegisterRoute(m, path)
		}
		mux.HandleFunc(path, fn)
	}
	route("/clients", []string{http.MethodGet, http.MethodPost}, h.handleClients)
	route("/products", []string{http.MethodGet, http.MethodPost}, h.handleProducts)
	route("/sales", []string{http.MethodGet, http.MethodPost}, h.handleSales)
	route("/metrics", []string{http.MethodGet}, metrics.Handler().ServeHTTP)
	route("/health", []string{http.MethodGet}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	return gzhttp.GzipHandler(withRequestID(withLogging(metrics.InstrumentHandler(mux))))
}

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clients, err := h.Stores.Clients.ListClients(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeFiltered(w, r, clients)
	case http.MethodPost:
		var req createClientRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == nil {
			writeError(w, http.StatusUnprocessableEntity, "name is required")
			return
		}
		c, err := h.Stores.Clients.CreateClient(r.Context(), types.Client{Name: *req.Name})
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeOK(w, map[string]string{"client_id": c.ID})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := h.Stores.Products.ListProducts(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeFiltered(w, r, products)
	case http.MethodPost:
		var req createProductRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == nil {
			writeError(w, http.StatusUnprocessableEntity, "name is required")
			return
		}
		if req.Price == nil {
			writeError(w, http.StatusUnprocessableEntity, "price is required")
			return
		}
		p, err := h.Stores.Products.CreateProduct(r.Context(), types.Product{Name: *req.Name, Price: *req.Price})
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeOK(w, map[string]string{"product_id": p.ID})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *Handler) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sales, err := h.Stores.Sales.ListSales(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeFiltered(w, r, sales)
	case http.MethodPost:
		var req createSaleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ClientID == nil || req.ProductID == nil || req.Quantity == nil {
			metrics.RecordSale("invalid")
			writeError(w, http.StatusUnprocessableEntity, "client_id, product_id and quantity are required")
			return
		}
		_, err := h.Registrar.RecordSale(r.Context(), flow.SaleRequest{
			ClientID:  *req.ClientID,
			ProductID: *req.ProductID,
			Quantity:  *req.Quantity,
		})
		switch {
		case err == nil:
			metrics.RecordSale("recorded")
			writeOK(w, map[string]string{"message": flow.SaleRecordedMessage})
		case errors.Is(err, types.ErrInvalidReference):
			metrics.RecordSale("invalid_reference")
			writeError(w, http.StatusBadRequest, "Invalid client or product ID")
		default:
			metrics.RecordSale("error")
			writeStoreError(w, r, err)
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// decodeBody reads a JSON object into v. It writes the error response and
// returns false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer func() {
		_ = r.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read error")
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "empty body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid json")
		return false
	}
	return true
}

func writeFiltered[T any](w http.ResponseWriter, r *http.Request, records []T) {
	out, err := flow.Filter(r.URL.Query().Get(filterQueryParam), records)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter: "+err.Error())
		return
	}
	if out == nil {
		out = []T{}
	}
	writeOK(w, out)
}

// writeStoreError logs a store or registrar failure and answers 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithError(err).WithFields(log.Fields{
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	}).Error("request failed")
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeOK(w http.ResponseWriter, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	if err := writeJSON(w, code, errorBody{Detail: detail}); err != nil {
		log.WithError(err).Error("failed to write error response")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
