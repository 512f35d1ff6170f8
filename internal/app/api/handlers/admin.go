package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/styler/internal/app/service/statistics"
	subsvc "github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/response"
)

// @Summary      List Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body subscription.ListRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := sub.ListSubscriptions(c.Request.Context(), &req)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, subsvc.ErrInvalidListRequest) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Subscription Statistics (Admin)
// @Description  Counts by status and plan, revenue per currency and daily activations.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body statistics.SubscriptionStatisticRequest true "Optional date range"
// @Success      200  {object}  handlers.RespSubscriptionStatistic
// @Router       /api/v1/admin/get_subscription_statistic [post]
func ApiGetSubscriptionStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.SubscriptionStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetSubscriptionStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Sweep Subscriptions (Admin)
// @Description  Abandons stale pending subscriptions and expires overdue ones immediately.
// @Tags         Admin
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  handlers.RespSweep
// @Router       /api/v1/admin/sweep [post]
func ApiSweep(sub *subsvc.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := sub.Sweep(c.Request.Context(), cfg.Sweeper.PendingTTL)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, sub *subsvc.Service, stats *statistics.Service, cfg *config.Config) {
	r.POST("/list_subscriptions", ApiListSubscriptions(sub))
	r.POST("/get_subscription_statistic", ApiGetSubscriptionStatistic(stats))
	r.POST("/sweep", ApiSweep(sub, cfg))
}
