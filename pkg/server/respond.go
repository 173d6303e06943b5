package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftwise/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code        errors.Code `json:"code"`
	Message     string      `json:"message"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error("encode response", "err", err)
	}
}

func respondStatus(w http.ResponseWriter, status int, code errors.Code, msg string) {
	respondJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// respondError writes err with the status its code maps to. Errors without
// a code are logged and reported as internal errors.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, suggestions ...string) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", requestIDFrom(r.Context()))
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	respondJSON(w, statusFor(code), errorBody{Error: errorDetail{
		Code:        code,
		Message:     msg,
		Suggestions: suggestions,
	}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return http.StatusNotFound
	case code == errors.ErrCodeRecipeCycle:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeInsufficientStock:
		return http.StatusConflict
	case code == errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == errors.ErrCodeSourceUnavailable, code == errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
