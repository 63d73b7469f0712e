package handlers

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// MovieService defines the movie operations the handler depends on
type MovieService interface {
	List(ctx context.Context) ([]*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Update(ctx context.Context, id int64, patch models.MoviePatch) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}

// MovieRequest is the body of POST and PATCH /movies
type MovieRequest struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
}

// MoviesResponse is the body of GET /movies
type MoviesResponse struct {
	Success bool            `json:"success"`
	Movies  []*models.Movie `json:"movies"`
}

// MovieResponse is the body of a successful create or update
type MovieResponse struct {
	Success bool          `json:"success"`
	Movie   *models.Movie `json:"movie"`
}

// MovieHandler handles movie HTTP requests
type MovieHandler struct {
	service MovieService
	logger  *zap.Logger
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(service MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /movies
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, MoviesResponse{Success: true, Movies: movies})
}

// HandleCreate handles POST /movies
func (h *MovieHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req MovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err, h.logger, requestID)
		return
	}

	details := make(map[string]string)
	if req.Title == nil {
		details["title"] = "title is required"
	}
	var releaseDate models.Date
	if req.ReleaseDate == nil {
		details["release_date"] = "release_date is required"
	} else if d, err := models.ParseDate(*req.ReleaseDate); err != nil {
		details["release_date"] = err.Error()
	} else {
		releaseDate = d
	}
	if len(details) > 0 {
		_ = utils.WriteUnprocessable(w, "", details)
		return
	}

	movie, err := h.service.Create(ctx, models.NewMovie(*req.Title, releaseDate))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, MovieResponse{Success: true, Movie: movie})
}

// HandleUpdate handles PATCH /movies/{id}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req MovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err, h.logger, requestID)
		return
	}

	var patch models.MoviePatch
	if req.Title != nil && *req.Title != "" {
		patch.Title = req.Title
	}
	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		d, err := models.ParseDate(*req.ReleaseDate)
		if err != nil {
			_ = utils.WriteUnprocessable(w, "", map[string]string{"release_date": err.Error()})
			return
		}
		patch.ReleaseDate = &d
	}

	movie, err := h.service.Update(ctx, id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, MovieResponse{Success: true, Movie: movie})
}

// HandleDelete handles DELETE /movies/{id}
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, DeleteResponse{Success: true, ID: id})
}
