package http

import (
	"net/http"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type UserHandler struct {
	service ports.PoolService
}

func NewUserHandler(service ports.PoolService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type meResponse struct {
	domain.Identity
	Memberships []ports.Membership `json:"memberships"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	memberships, err := h.service.ListMemberships(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Identity: identity, Memberships: memberships})
}
