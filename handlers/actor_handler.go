package handlers

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// ActorService defines the actor operations the handler depends on
type ActorService interface {
	List(ctx context.Context) ([]*models.Actor, error)
	Create(ctx context.Context, actor *models.Actor) (*models.Actor, error)
	Update(ctx context.Context, id int64, patch models.ActorPatch) (*models.Actor, error)
	Delete(ctx context.Context, id int64) error
}

// ActorRequest is the body of POST and PATCH /actors. Absent fields decode
// to nil.
type ActorRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

// ActorsResponse is the body of GET /actors
type ActorsResponse struct {
	Success bool            `json:"success"`
	Actors  []*models.Actor `json:"actors"`
}

// ActorResponse is the body of a successful create or update
type ActorResponse struct {
	Success bool          `json:"success"`
	Actor   *models.Actor `json:"actor"`
}

// ActorHandler handles actor HTTP requests
type ActorHandler struct {
	service ActorService
	logger  *zap.Logger
}

// NewActorHandler creates a new ActorHandler
func NewActorHandler(service ActorService, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /actors
func (h *ActorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, ActorsResponse{Success: true, Actors: actors})
}

// HandleCreate handles POST /actors
func (h *ActorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req ActorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err, h.logger, requestID)
		return
	}

	details := make(map[string]string)
	if req.Name == nil {
		details["name"] = "name is required"
	}
	if req.Age == nil {
		details["age"] = "age is required"
	}
	var gender models.Gender
	if req.Gender == nil {
		details["gender"] = "gender is required"
	} else if g, err := models.ParseGender(*req.Gender); err != nil {
		details["gender"] = err.Error()
	} else {
		gender = g
	}
	if len(details) > 0 {
		_ = utils.WriteUnprocessable(w, "", details)
		return
	}

	actor, err := h.service.Create(ctx, models.NewActor(*req.Name, *req.Age, gender))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, ActorResponse{Success: true, Actor: actor})
}

// HandleUpdate handles PATCH /actors/{id}. Only supplied, non-empty fields
// are changed.
func (h *ActorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req ActorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err, h.logger, requestID)
		return
	}

	var patch models.ActorPatch
	if req.Name != nil && *req.Name != "" {
		patch.Name = req.Name
	}
	patch.Age = req.Age
	if req.Gender != nil && *req.Gender != "" {
		gender, err := models.ParseGender(*req.Gender)
		if err != nil {
			_ = utils.WriteUnprocessable(w, "", map[string]string{"gender": err.Error()})
			return
		}
		patch.Gender = &gender
	}

	actor, err := h.service.Update(ctx, id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, ActorResponse{Success: true, Actor: actor})
}

// HandleDelete handles DELETE /actors/{id}
func (h *ActorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
