package app

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vk/adsgateway/internal/ctxlog"
	"github.com/vk/adsgateway/internal/format"
)

// routes builds the gateway's HTTP surface. The health probe is open;
// everything under /api requires the shared token.
func (a *App) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /api/info", a.requireToken(a.handleInfo))
	mux.HandleFunc("POST /api/search", a.requireToken(a.handleSearch))
	return mux
}

// requireToken gates a handler on the x-api-key header.
func (a *App) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-api-key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.config.APIToken)) != 1 {
			a.logger.Warn("Rejected request with bad API key.", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}

// handleHealthz answers with plain text; the dashboard probes it before
// it will talk JSON to the rest of the API.
func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

type infoResponse struct {
	Client     string `json:"client"`
	CustomerID string `json:"customer_id"`
	MCCID      string `json:"mcc_id"`
}

func (a *App) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Client:     "adsgateway",
		CustomerID: a.config.CustomerID,
		MCCID:      a.config.Ads.LoginCustomerID,
	})
}

type searchRequest struct {
	CustomerID string   `json:"customer_id"`
	Query      string   `json:"query"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Result []map[string]any `json:"result"`
}

// handleSearch runs one reporting query and returns its rows flattened
// through the formatting core. Per-field failures inside a row surface
// as nulls, never as a failed request.
func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	logger := ctxlog.FromContext(ctx)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "at least one field is required")
		return
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = a.config.CustomerID
	}

	// Advisory only: the catalogue is a snapshot, so unknown fields are
	// logged and still sent upstream.
	for _, f := range req.Fields {
		if !a.metadata.KnownField(f) {
			logger.Warn("Requested field not present in reporting metadata.", "field", f)
		}
	}

	rows, err := a.search.Search(ctx, customerID, req.Query)
	if err != nil {
		logger.Error("Upstream search failed.", "customer_id", customerID, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	result := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		result = append(result, format.FormatRow(ctx, row, req.Fields))
	}
	logger.Info("Search served.", "customer_id", customerID, "rows", len(result), "fields", len(req.Fields))

	writeJSON(w, http.StatusOK, searchResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
