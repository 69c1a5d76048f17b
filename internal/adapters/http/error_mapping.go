package httpadapter

import (
	"net/http"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrNoData), domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrNotReady), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage keeps internal causes out of responses. Input errors
// and the prediction failure sentinel are already safe to show.
func publicErrorMessage(err error, status int) string {
	switch {
	case status == http.StatusBadRequest:
		return err.Error()
	case status == http.StatusRequestEntityTooLarge:
		return domain.ErrTooLarge.Error()
	case domain.IsKind(err, domain.ErrPredictionFailed):
		return err.Error()
	case status == http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}
