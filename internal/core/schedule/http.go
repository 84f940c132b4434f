package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/tunreplay/internal/platform/request"
	"github.com/taibuivan/tunreplay/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/schedule", handler.day)
}

func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/schedule", handler.list)
	router.Post("/schedule", handler.create)
	router.Delete("/schedule/{id}", handler.delete)
}

func (handler *Handler) day(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Day(request.Context(), request.URL.Query().Get("day"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.List(request.Context(), request.URL.Query().Get("day"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Entry
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

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
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
