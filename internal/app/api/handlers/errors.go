package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/styler/internal/app/api/middleware"
	nh "github.com/fatflowers/styler/internal/app/service/notification_handler"
	"github.com/fatflowers/styler/internal/app/service/stylist"
	subsvc "github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/internal/platform/genai"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/response"
	"github.com/fatflowers/styler/pkg/types"
)

// statusFor maps service errors onto HTTP statuses. Anything unknown,
// including missing configuration and storage failures, is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidPlan),
		errors.Is(err, subsvc.ErrInvalidSignature),
		errors.Is(err, stylist.ErrEmptyMessage),
		errors.Is(err, nh.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, mw.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, subsvc.ErrSubscriptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, subsvc.ErrVerificationInProgress):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrGateway), errors.Is(err, genai.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, base *zap.SugaredLogger, event string, err error) {
	status := statusFor(err)
	log := logctx.FromGin(c, base)
	if status >= http.StatusInternalServerError {
		log.Errorw(event, "status", status, "error", err)
	} else {
		log.Infow(event, "status", status, "error", err)
	}
	_ = c.Error(err)
	response.AbortWithError(c, status, err)
}

func badRequest(c *gin.Context, err error) {
	response.AbortWithError(c, http.StatusBadRequest, err)
}
