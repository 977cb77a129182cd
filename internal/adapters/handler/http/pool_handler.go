package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type PoolHandler struct {
	service   ports.PoolService
	engine    ports.DistributionService
	forecasts ports.ForecastService
}

func NewPoolHandler(service ports.PoolService, engine ports.DistributionService, forecasts ports.ForecastService) *PoolHandler {
	return &PoolHandler{
		service:   service,
		engine:    engine,
		forecasts: forecasts,
	}
}

type createPoolRequest struct {
	Name string `json:"name"`
}

func (h *PoolHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	founder, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	var req createPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pool, err := h.service.CreatePool(r.Context(), ports.CreatePoolInput{Name: req.Name, Founder: founder})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, pool)
}

func (h *PoolHandler) GetPoolPreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.GetPoolPreview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if preview == nil {
		writeError(w, http.StatusNotFound, domain.ErrPoolNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

func (h *PoolHandler) GetPoolDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetPoolDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, domain.ErrPoolNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// JoinPool adds the caller to the pool. Rejoining answers 200 with added=false.
func (h *PoolHandler) JoinPool(w http.ResponseWriter, r *http.Request) {
	member, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	res, err := h.service.JoinPool(r.Context(), ports.JoinPoolInput{PoolID: chi.URLParam(r, "id"), Member: member})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Added {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

func (h *PoolHandler) PreviewSplit(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}

	split, err := h.engine.PreviewSplit(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if split == nil {
		writeError(w, http.StatusNotFound, domain.ErrPoolNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, split)
}

// GetForecast projects the caller's share. Anonymous callers get the member view.
func (h *PoolHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	forecast, err := h.forecasts.Forecast(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if forecast == nil {
		writeError(w, http.StatusNotFound, domain.ErrPoolNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, forecast)
}
