package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// MockActorService is a mock implementation of ActorService
type MockActorService struct {
	mock.Mock
}

func (m *MockActorService) List(ctx context.Context) ([]*models.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Actor), args.Error(1)
}

func (m *MockActorService) Create(ctx context.Context, actor *models.Actor) (*models.Actor, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorService) Update(ctx context.Context, id int64, patch models.ActorPatch) (*models.Actor, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func actorRouter(h *ActorHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/actors", h.HandleList)
	r.Post("/actors", h.HandleCreate)
	r.Patch("/actors/{id}", h.HandleUpdate)
	r.Delete("/actors/{id}", h.HandleDelete)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestActorHandler_HandleList(t *testing.T) {
	t.Run("returns actors", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("List", mock.Anything).Return([]*models.Actor{
			{ID: 1, Name: "Ana", Age: 30, Gender: models.GenderFemale},
		}, nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodGet, "/actors", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"actors":[{"id":1,"name":"Ana","age":30,"gender":"FEMALE"}]}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("empty list renders as array", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("List", mock.Anything).Return([]*models.Actor{}, nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodGet, "/actors", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"actors":[]}`, w.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("List", mock.Anything).Return(nil, services.WrapInternal("failed to list actors", errors.New("connection reset")))

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodGet, "/actors", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestActorHandler_HandleCreate(t *testing.T) {
	t.Run("creates actor", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Actor) bool {
			return a.Name == "Ben" && a.Age == 41 && a.Gender == models.GenderMale
		})).Return(&models.Actor{ID: 7, Name: "Ben", Age: 41, Gender: models.GenderMale}, nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPost, "/actors",
			`{"name":"Ben","age":41,"gender":"male"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var response ActorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.True(t, response.Success)
		assert.Equal(t, int64(7), response.Actor.ID)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name        string
		body        string
		wantDetails []string
	}{
		{"empty body", "", []string{"body"}},
		{"malformed json", `{"name":`, []string{"body"}},
		{"two documents", `{} {}`, []string{"body"}},
		{"missing fields", `{}`, []string{"name", "age", "gender"}},
		{"missing gender", `{"name":"Ben","age":41}`, []string{"gender"}},
		{"unknown gender", `{"name":"Ben","age":41,"gender":"robot"}`, []string{"gender"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockActorService)

			w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPost, "/actors", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			response := decodeErrorBody(t, w)
			assert.Equal(t, "unprocessable", response.Message)
			for _, key := range tt.wantDetails {
				assert.Contains(t, response.Details, key)
			}
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("service validation error", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil,
			services.NewDomainError(services.ErrorTypeValidation, "invalid input", nil).WithDetail("age", "age must be less than or equal to 150"))

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPost, "/actors",
			`{"name":"Ben","age":400,"gender":"MALE"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeErrorBody(t, w).Details, "age")
	})
}

func TestActorHandler_HandleUpdate(t *testing.T) {
	t.Run("applies only supplied fields", func(t *testing.T) {
		svc := new(MockActorService)
		age := 35
		svc.On("Update", mock.Anything, int64(3), models.ActorPatch{Age: &age}).
			Return(&models.Actor{ID: 3, Name: "Ana", Age: 35, Gender: models.GenderFemale}, nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPatch, "/actors/3",
			`{"name":"","age":35}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var response ActorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 35, response.Actor.Age)
		svc.AssertExpectations(t)
	})

	t.Run("normalizes gender", func(t *testing.T) {
		svc := new(MockActorService)
		gender := models.GenderNonBinary
		svc.On("Update", mock.Anything, int64(3), models.ActorPatch{Gender: &gender}).
			Return(&models.Actor{ID: 3, Name: "Ana", Age: 30, Gender: gender}, nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPatch, "/actors/3",
			`{"gender":"non_binary"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid gender", func(t *testing.T) {
		svc := new(MockActorService)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPatch, "/actors/3",
			`{"gender":"robot"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeErrorBody(t, w).Details, "gender")
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown actor", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("Update", mock.Anything, int64(99), mock.Anything).Return(nil, services.ErrActorNotFound)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPatch, "/actors/99",
			`{"name":"X"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	for _, id := range []string{"abc", "0", "-4"} {
		t.Run("bad id "+id, func(t *testing.T) {
			svc := new(MockActorService)

			w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodPatch, "/actors/"+id,
				`{"name":"X"}`)

			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestActorHandler_HandleDelete(t *testing.T) {
	t.Run("deletes actor", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("Delete", mock.Anything, int64(5)).Return(nil)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodDelete, "/actors/5", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"id":5}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing actor", func(t *testing.T) {
		svc := new(MockActorService)
		svc.On("Delete", mock.Anything, int64(5)).Return(services.ErrActorNotDeletable)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodDelete, "/actors/5", "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "unprocessable", decodeErrorBody(t, w).Message)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockActorService)

		w := serve(actorRouter(NewActorHandler(svc, zap.NewNop())), http.MethodDelete, "/actors/x", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestIndex(t *testing.T) {
	w := httptest.NewRecorder()
	Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Casting Agency API!"}`, w.Body.String())
}
