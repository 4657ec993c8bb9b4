package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/app/resolver"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
	"github.com/roleatlas/roleatlas/internal/pkg/httputil"
)

// RolesHandler serves role search and catalog management.
type RolesHandler struct {
	service *resolver.Service
}

// NewRolesHandler creates the handler.
func NewRolesHandler(svc *resolver.Service) *RolesHandler {
	return &RolesHandler{service: svc}
}

// RegisterRoutes registers role routes on the router.
func (h *RolesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{provider}", func(r chi.Router) {
		r.Get("/roles", h.HandleSearchRoles)
		r.Get("/roles/{roleID}", h.HandleGetRole)
		r.Post("/catalog/refresh", h.HandleRefreshCatalog)
	})
}

// RoleListResponse wraps search results.
type RoleListResponse struct {
	Provider string                `json:"provider"`
	Count    int                   `json:"count"`
	Roles    []rbac.RoleDefinition `json:"roles"`
}

// HandleSearchRoles searches roles by free text over name/description.
func (h *RolesHandler) HandleSearchRoles(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	query := r.URL.Query().Get("search")
	limit := parseLimit(r)

	roles, err := h.service.SearchRoles(r.Context(), provider, query, limit)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	render.JSON(w, r, RoleListResponse{
		Provider: string(provider),
		Count:    len(roles),
		Roles:    roles,
	})
}

// HandleGetRole returns a single role with its grant sets.
func (h *RolesHandler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	role, err := h.service.GetRole(r.Context(), provider, chi.URLParam(r, "roleID"))
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	if role == nil {
		httputil.NotFound(w, r, "role not found")
		return
	}

	render.JSON(w, r, role)
}

// HandleRefreshCatalog invalidates and reloads the provider's catalog.
func (h *RolesHandler) HandleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	snap, err := h.service.RefreshCatalog(r.Context(), provider)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"provider": string(provider),
		"snapshot": snap.ID,
		"roles":    len(snap.Roles),
		"loadedAt": snap.LoadedAt,
	})
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
