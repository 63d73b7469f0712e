package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies read by decodeJSON
const maxBodyBytes = 1 << 20

// WelcomeMessage is returned by the index route
const WelcomeMessage = "Welcome to the Casting Agency API!"

// IndexResponse is the body of GET /
type IndexResponse struct {
	Message string `json:"message"`
}

// Index handles GET /
func Index(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, IndexResponse{Message: WelcomeMessage})
}

// NotFound renders the JSON 404 envelope for unmatched routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "")
}

// MethodNotAllowed renders the JSON 405 envelope
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteMethodNotAllowed(w)
}

// DeleteResponse is the body of a successful delete
type DeleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// decodeJSON reads a single JSON document from the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses the {id} route parameter. ok is false for anything that is
// not a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeBodyError answers a request whose body could not be decoded
func writeBodyError(w http.ResponseWriter, err error, logger *zap.Logger, requestID string) {
	logger.Warn("failed to parse request body",
		zap.String("request_id", requestID),
		zap.Error(err))
	_ = utils.WriteUnprocessable(w, "", map[string]string{"body": err.Error()})
}
