package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Mirxa893/zola/internal/schema"
)

const genericMessage = "Internal server error"

// Map converts any error into the status and body sent to the client. It is
// total: unrecognized errors become a 500 with a generic message, and internal
// error text never reaches the body.
func Map(err error) (int, schema.ErrorResponse) {
	var e *Error
	if !errors.As(err, &e) {
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, schema.ErrorResponse{Error: "Request timed out"}
		}
		return http.StatusInternalServerError, schema.ErrorResponse{Error: genericMessage}
	}

	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest, schema.ErrorResponse{Error: e.Message}
	case KindLimitReached:
		return http.StatusForbidden, schema.ErrorResponse{Error: e.Message, Code: e.Code}
	case KindUpstream:
		if e.UpstreamStatus == 0 {
			return http.StatusBadGateway, schema.ErrorResponse{Error: "Completion service unavailable"}
		}
		status := http.StatusBadGateway
		if e.UpstreamStatus == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		return status, schema.ErrorResponse{
			Error: fmt.Sprintf("Completion service request failed with status %d", e.UpstreamStatus),
		}
	case KindUpstreamProtocol:
		return http.StatusBadGateway, schema.ErrorResponse{Error: "Invalid response from completion service"}
	case KindTimeout:
		return http.StatusGatewayTimeout, schema.ErrorResponse{Error: "Request timed out"}
	default:
		return http.StatusInternalServerError, schema.ErrorResponse{Error: genericMessage}
	}
}
