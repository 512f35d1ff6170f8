package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	nh "github.com/fatflowers/styler/internal/app/service/notification_handler"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/types"
)

const maxWebhookBody = 1 << 20

// @Summary      Payment gateway webhook
// @Description  Receives signed gateway events. order.paid and payment.captured activate the order's subscription; duplicates are acknowledged without being applied.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature header string true "hex HMAC-SHA256 of the body"
// @Param        X-Razorpay-Event-Id header string false "gateway event id"
// @Success      200  {object}  notification_handler.Result
// @Failure      400  {object}  response.ErrorBody
// @Router       /functions/v1/payment-webhook [post]
func ApiPaymentWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			badRequest(c, fmt.Errorf("failed to read body: %w", err))
			return
		}
		if len(body) > maxWebhookBody {
			badRequest(c, fmt.Errorf("%w: body too large", nh.ErrInvalidPayload))
			return
		}
		logctx.FromGin(c, h.Logger).Infow("webhook_received", "provider", types.PaymentProviderRazorpay)

		res, err := h.HandleNotification(c.Request.Context(), types.PaymentProviderRazorpay, &nh.Notification{Header: c.Request.Header, Body: body})
		if err != nil {
			writeError(c, h.Logger, "webhook_handle_error", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *nh.NotificationHandler) {
	r.POST("/payment-webhook", ApiPaymentWebhook(h))
}
