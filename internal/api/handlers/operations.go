package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/app/resolver"
	"github.com/roleatlas/roleatlas/internal/pkg/httputil"
)

// OperationsHandler serves namespace and operation discovery, used to
// build calculation inputs interactively.
type OperationsHandler struct {
	service *resolver.Service
}

// NewOperationsHandler creates the handler.
func NewOperationsHandler(svc *resolver.Service) *OperationsHandler {
	return &OperationsHandler{service: svc}
}

// RegisterRoutes registers namespace/operation routes on the router.
func (h *OperationsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{provider}/namespaces", func(r chi.Router) {
		r.Get("/", h.HandleListNamespaces)
		r.Get("/{namespace}/operations", h.HandleListOperations)
	})
}

// HandleListNamespaces lists the distinct top-level namespaces present
// across the catalog.
func (h *OperationsHandler) HandleListNamespaces(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	namespaces, err := h.service.Namespaces(r.Context(), provider)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"provider":   string(provider),
		"count":      len(namespaces),
		"namespaces": namespaces,
	})
}

// HandleListOperations lists operations under one namespace.
func (h *OperationsHandler) HandleListOperations(w http.ResponseWriter, r *http.Request) {
	provider, err := catalog.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.BadRequest(w, r, err.Error())
		return
	}

	namespace := chi.URLParam(r, "namespace")
	ops, err := h.service.Operations(r.Context(), provider, namespace, parseLimit(r))
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"provider":   string(provider),
		"namespace":  namespace,
		"count":      len(ops),
		"operations": ops,
	})
}
