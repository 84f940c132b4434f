package series

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/tunreplay/internal/platform/constants"
	"github.com/taibuivan/tunreplay/internal/platform/middleware"
	requestutil "github.com/taibuivan/tunreplay/internal/platform/request"
	"github.com/taibuivan/tunreplay/internal/platform/respond"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
	"github.com/taibuivan/tunreplay/pkg/pagination"
)

type Handler struct {
	service     *Service
	searchGuard func(http.Handler) http.Handler
}

// NewHandler builds the series handler. searchGuard wraps the search route,
// typically with [middleware.Throttle]; nil leaves it unguarded.
func NewHandler(service *Service, searchGuard func(http.Handler) http.Handler) *Handler {
	if searchGuard == nil {
		searchGuard = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, searchGuard: searchGuard}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/series", handler.listLatest)
	router.Get("/series/pinned", handler.listPinned)
	router.With(handler.searchGuard).Get("/series/search", handler.search)
	router.Get("/series/{slug}", handler.getSeries)
}

// RegisterAdminRoutes expects a router that already requires an editor token.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/series", handler.adminList)
	router.Post("/series", handler.createSeries)
	router.Get("/series/{id}", handler.adminGet)
	router.Put("/series/{id}", handler.updateSeries)
	router.Put("/series/{id}/pin", handler.pinSeries)

	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/series/{id}", handler.deleteSeries)
}

func (handler *Handler) listLatest(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, constants.LatestSeriesLimit)

	typeID, err := requestutil.OptionalInt64Query(request, "typeId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, total, err := handler.service.ListLatest(request.Context(), typeID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, list, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) listPinned(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.ListPinned(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FixedFromRequest(request, constants.SearchPageSize).Page

	list, params, total, err := handler.service.Search(request.Context(), request.URL.Query().Get("q"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, list, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getSeries(writer http.ResponseWriter, request *http.Request) {
	series, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, series)
}

// # Admin

func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, pagination.DefaultLimit)

	list, total, err := handler.service.AdminList(request.Context(), request.URL.Query().Get("q"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, list, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, series)
}

func (handler *Handler) createSeries(writer http.ResponseWriter, request *http.Request) {
	var input Series
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Create(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateSeries(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Series
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ID = id

	if err := handler.service.Update(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

type pinInput struct {
	Pinned bool `json:"pinned"`
}

func (handler *Handler) pinSeries(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input pinInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetPinned(request.Context(), id, input.Pinned); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteSeries(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
