package episode

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

// RegisterRoutes shares the {slug} parameter name with the series routes.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/series/{slug}/episodes", handler.listEpisodes)
	router.Get("/series/{slug}/episodes/{episodeSlug}", handler.getEpisode)
	router.Get("/episodes/latest", handler.latest)
}

func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/series/{id}/episodes", handler.adminList)
	router.Post("/series/{id}/episodes", handler.createEpisode)
	router.Get("/episodes/{id}", handler.adminGet)
	router.Put("/episodes/{id}", handler.updateEpisode)

	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/episodes/{id}", handler.deleteEpisode)
}

func (handler *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FixedFromRequest(request, 0)

	page, err := handler.service.Page(request.Context(), requestutil.Param(request, "slug"), params.Page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page.Items, page.Meta())
}

func (handler *Handler) getEpisode(writer http.ResponseWriter, request *http.Request) {
	episode, err := handler.service.Get(request.Context(), requestutil.Param(request, "slug"), requestutil.Param(request, "episodeSlug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, episode)
}

func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.Latest(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

// # Admin

func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	seriesID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request, pagination.MaxLimit)
	page, err := handler.service.PageOf(request.Context(), seriesID, params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page.Items, page.Meta())
}

func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episode, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, episode)
}

func (handler *Handler) createEpisode(writer http.ResponseWriter, request *http.Request) {
	seriesID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Episode
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.SeriesID = seriesID

	if err := handler.service.Create(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Episode
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

func (handler *Handler) deleteEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
