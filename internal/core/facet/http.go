package facet

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/tunreplay/internal/platform/middleware"
	requestutil "github.com/taibuivan/tunreplay/internal/platform/request"
	"github.com/taibuivan/tunreplay/internal/platform/respond"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
	"github.com/taibuivan/tunreplay/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the same three routes for every [Kind].
func (handler *Handler) RegisterRoutes(router chi.Router) {
	for _, kind := range Kinds {
		prefix := "/" + kind.Name
		router.Get(prefix, handler.list(kind))
		router.Get(prefix+"/{key}", handler.get(kind))
		router.Get(prefix+"/{key}/series", handler.seriesPage(kind))
	}
}

func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	for _, kind := range Kinds {
		prefix := "/" + kind.Name
		router.Post(prefix, handler.create(kind))
		router.Put(prefix+"/{id}", handler.update(kind))

		router.With(middleware.RequireRole(sec.RoleAdmin)).Delete(prefix+"/{id}", handler.delete(kind))
	}
}

func (handler *Handler) list(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		list, err := handler.service.List(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, list)
	}
}

func (handler *Handler) get(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		facet, err := handler.service.Get(request.Context(), kind, requestutil.Param(request, "key"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, facet)
	}
}

func (handler *Handler) seriesPage(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		params := pagination.FixedFromRequest(request, 0)

		result, err := handler.service.SeriesPage(request.Context(), kind, requestutil.Param(request, "key"), params.Page)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, result)
	}
}

func (handler *Handler) create(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input Facet
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Create(request.Context(), kind, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, input)
	}
}

func (handler *Handler) update(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input Facet
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.ID = id

		if err := handler.service.Update(request.Context(), kind, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, input)
	}
}

func (handler *Handler) delete(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Delete(request.Context(), kind, id); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}
