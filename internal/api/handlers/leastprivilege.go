// Package handlers implements the HTTP handlers of the API server.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/app/resolver"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
	"github.com/roleatlas/roleatlas/internal/pkg/httputil"
)

// LeastPrivilegeHandler serves least-privilege role resolution.
type LeastPrivilegeHandler struct {
	service *resolver.Service
}

// NewLeastPrivilegeHandler creates the handler.
func NewLeastPrivilegeHandler(svc *resolver.Service) *LeastPrivilegeHandler {
	return &LeastPrivilegeHandler{service: svc}
}

// RegisterRoutes registers least-privilege routes on the router.
func (h *LeastPrivilegeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{provider}/least-privilege", h.HandleCalculate)
}

// LeastPrivilegeRequest is the calculation input.
type LeastPrivilegeRequest struct {
	RequiredActions     []string `json:"requiredActions"`
	RequiredDataActions []string `json:"requiredDataActions"`
}

// LeastPrivilegeResponse wraps the ranked results.
type LeastPrivilegeResponse struct {
	Provider string        `json:"provider"`
	Results  []rbac.Result `json:"results"`
}

// HandleCalculate computes the ranked candidate roles for a requirement.
func (h *LeastPrivilegeHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	var req LeastPrivilegeRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	results, err := h.service.LeastPrivilege(r.Context(), provider, rbac.Requirement{
		Actions:     req.RequiredActions,
		DataActions: req.RequiredDataActions,
	})
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	render.JSON(w, r, LeastPrivilegeResponse{
		Provider: string(provider),
		Results:  results,
	})
}

// writeResolverError maps the resolver error taxonomy onto response
// codes: invalid input and unavailable catalog must stay distinguishable
// (spoofing one as the other would misrepresent "no roles match").
func writeResolverError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rbac.ErrEmptyRequirement):
		httputil.ValidationFailed(w, r, "requiredActions and requiredDataActions must not both be empty")
	case errors.Is(err, catalog.ErrUnavailable):
		httputil.ServiceUnavailable(w, r, "role catalog is unavailable")
	default:
		httputil.InternalError(w, r, err)
	}
}
