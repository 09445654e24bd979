package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	analyticsapp "supplyperf/internal/analytics/application"
	exportdomain "supplyperf/internal/export/domain"
	ordersdomain "supplyperf/internal/orders/domain"
	predictiondomain "supplyperf/internal/prediction/domain"
	"supplyperf/internal/shared/logger"
)

// APIResponse is the envelope of every JSON body. Status 0 means success.
type APIResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func ok(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, APIResponse{Status: 0, Msg: "ok", Data: data})
}

// fail maps err to an HTTP status and writes it in the envelope.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, APIResponse{Status: status, Msg: http.StatusText(status), Error: err.Error()})
}

// StatusFor returns the HTTP status matching a service error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, predictiondomain.ErrInvalidOrder),
		errors.Is(err, exportdomain.ErrUnknownFormat),
		errors.Is(err, exportdomain.ErrUnknownDataset),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, analyticsapp.ErrUnknownSupplier):
		return http.StatusNotFound
	case errors.Is(err, ordersdomain.ErrDataUnavailable),
		errors.Is(err, predictiondomain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
