package address

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/tunreplay/internal/platform/request"
	"github.com/taibuivan/tunreplay/internal/platform/respond"
	"github.com/taibuivan/tunreplay/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes mounts the slug tools under an authenticated router.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/slugs/{collection}/check", handler.checkSlug)
	router.Get("/slugs/{collection}/debug", handler.debugSlug)
}

// CheckResult is the body of the check endpoint.
type CheckResult struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (handler *Handler) checkSlug(writer http.ResponseWriter, request *http.Request) {
	scope, err := scopeFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := request.URL.Query().Get("title")
	if err := new(validate.Validator).Required("title", title).MaxLen("title", title, 500).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	excludeID, err := requestutil.OptionalInt64Query(request, "excludeId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	allocated, err := handler.service.AllocateUniqueSlug(request.Context(), scope, title, excludeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, CheckResult{Title: title, Slug: allocated})
}

func (handler *Handler) debugSlug(writer http.ResponseWriter, request *http.Request) {
	scope, err := scopeFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	raw := request.URL.Query().Get("slug")
	if err := new(validate.Validator).Required("slug", raw).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	diagnosis, err := handler.service.Diagnose(request.Context(), scope, raw)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, diagnosis)
}

// scopeFromRequest reads {collection} and, for episodes, the parentId query.
func scopeFromRequest(request *http.Request) (Scope, error) {
	collection, err := ParseCollection(requestutil.Param(request, "collection"))
	if err != nil {
		return Scope{}, err
	}

	scope := In(collection)
	if collection != CollectionEpisodes {
		return scope, nil
	}

	parentID, err := requestutil.OptionalInt64Query(request, "parentId")
	if err != nil {
		return Scope{}, err
	}
	if parentID == nil {
		return Scope{}, validate.RequiredError("parentId", "Episode slugs are scoped to a series")
	}
	scope.ParentID = *parentID
	return scope, nil
}
