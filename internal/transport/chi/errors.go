package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/logger"
)

// ErrorCode is the machine-readable error class of a response.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeInvalidArgument  ErrorCode = "invalid_argument"
	CodeUnknownNamespace ErrorCode = "unknown_namespace"
	CodeNotFound         ErrorCode = "not_found"
	CodeNoGroupKey       ErrorCode = "no_group_key"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrUnknownNamespace, http.StatusBadRequest, CodeUnknownNamespace),
	sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeInvalidArgument),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrNoGroupKey, http.StatusUnprocessableEntity, CodeNoGroupKey),
}

// sentinelHandler maps a sentinel to a status. Client errors carry the full
// message: every layer wraps them with the offending input, never with
// store internals.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.From(r.Context())
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}
	fields := []zap.Field{zap.Error(err)}
	if op, ok := db.FailedOp(err); ok {
		fields = append(fields, zap.String("store_op", string(op)))
	}
	log.Error("internal error", fields...)
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
