package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/styler/internal/app/api/middleware"
	"github.com/fatflowers/styler/internal/app/service/stylist"
	subsvc "github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/pkg/response"
)

type CreateCheckoutRequest struct {
	PlanID string `json:"planId"`
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type VerifyPaymentResponse struct {
	Success bool `json:"success"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

func currentUser(c *gin.Context) (mw.User, bool) {
	u, ok := mw.CurrentUser(c)
	if !ok {
		response.AbortWithError(c, http.StatusUnauthorized, mw.ErrUnauthorized)
	}
	return u, ok
}

// @Summary      Create checkout
// @Description  Creates a gateway order for the plan and records a pending subscription.
// @Tags         Functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCheckoutRequest true "Plan to purchase"
// @Success      200  {object}  subscription.CheckoutResult
// @Failure      400  {object}  response.ErrorBody
// @Failure      502  {object}  response.ErrorBody
// @Router       /functions/v1/create-checkout [post]
func ApiCreateCheckout(sub *subsvc.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := sub.CreateCheckout(c.Request.Context(), &subsvc.CheckoutRequest{UserID: user.ID, Email: user.Email, PlanID: req.PlanID})
		if err != nil {
			writeError(c, log, "create_checkout_failed", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Verify payment
// @Description  Verifies the gateway payment signature and activates the subscription.
// @Tags         Functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body VerifyPaymentRequest true "Gateway confirmation"
// @Success      200  {object}  VerifyPaymentResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /functions/v1/verify-payment [post]
func ApiVerifyPayment(sub *subsvc.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		err := sub.VerifyPayment(c.Request.Context(), &subsvc.VerifyRequest{
			UserID:    user.ID,
			Email:     user.Email,
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Signature: req.Signature,
		})
		if err != nil {
			writeError(c, log, "verify_payment_failed", err)
			return
		}
		c.JSON(http.StatusOK, VerifyPaymentResponse{Success: true})
	}
}

// @Summary      Check subscription
// @Description  Returns the caller's plan. Lapsed subscriptions are expired on read.
// @Tags         Functions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  types.SubscriptionStatusInfo
// @Router       /functions/v1/check-subscription [post]
func ApiCheckSubscription(sub *subsvc.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		res, err := sub.CheckSubscription(c.Request.Context(), user.ID)
		if err != nil {
			writeError(c, log, "check_subscription_failed", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Subscription portal
// @Description  Returns the URL of the app's subscription management page.
// @Tags         Functions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PortalResponse
// @Router       /functions/v1/subscription-portal [post]
func ApiSubscriptionPortal(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			return
		}
		c.JSON(http.StatusOK, PortalResponse{URL: sub.PortalURL()})
	}
}

// @Summary      Stylist chat
// @Description  Sends the message and recent history to the stylist model.
// @Tags         Functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body stylist.ChatRequest true "Message and history"
// @Success      200  {object}  stylist.ChatResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      502  {object}  response.ErrorBody
// @Router       /functions/v1/stylist-chat [post]
func ApiStylistChat(svc *stylist.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			return
		}
		var req stylist.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Chat(c.Request.Context(), &req)
		if err != nil {
			writeError(c, log, "stylist_chat_failed", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// RegisterFunctionRoutes mounts the authenticated app endpoints. auth is
// applied per route so CORS preflights pass without a token.
func RegisterFunctionRoutes(r gin.IRouter, auth gin.HandlerFunc, sub *subsvc.Service, chat *stylist.Service, log *zap.SugaredLogger) {
	r.OPTIONS("/:function", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/create-checkout", auth, ApiCreateCheckout(sub, log))
	r.POST("/verify-payment", auth, ApiVerifyPayment(sub, log))
	r.POST("/check-subscription", auth, ApiCheckSubscription(sub, log))
	r.POST("/subscription-portal", auth, ApiSubscriptionPortal(sub))
	r.POST("/stylist-chat", auth, ApiStylistChat(chat, log))
}
