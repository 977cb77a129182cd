package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type DistributionHandler struct {
	engine ports.DistributionService
}

func NewDistributionHandler(engine ports.DistributionService) *DistributionHandler {
	return &DistributionHandler{
		engine: engine,
	}
}

type simulateRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// SimulateDistribution records one distribution. The body is optional; asOf
// defaults to now.
func (h *DistributionHandler) SimulateDistribution(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var asOf time.Time
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	dist, err := h.engine.SimulateDistribution(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dist)
}
