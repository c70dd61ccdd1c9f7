package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/pkg/response"
)

type PurchaseRequest struct {
	DurationDays int `json:"duration_days" binding:"required"`
}

type AssignRequest struct {
	ChildID      string `json:"child_id" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required"`
}

// @Summary      Buy a service directly
// @Description  Creates an unverified subscription for the caller without going through the cart.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        request body handlers.PurchaseRequest true "Package length"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/services/{id}/purchase [post]
func ApiPurchase(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := subs.Purchase(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"), req.DurationDays)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Buy a service for a child
// @Description  Parent accounts only. The subscription belongs to the child and records the parent as buyer.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        request body handlers.AssignRequest true "Child and package length"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/services/{id}/assign [post]
func ApiAssignToChild(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := subs.AssignToChild(c.Request.Context(), mw.CurrentUser(c).ID, req.ChildID, c.Param("id"), req.DurationDays)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Scan subscriptions (Admin)
// @Description  Filterable, paginated list for the activation queue.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespScanSubscriptions
// @Router       /api/v1/admin/subscriptions/scan [post]
func ApiScanSubscriptions(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := subs.Scan(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get subscription (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscriptions/{id} [get]
func ApiGetSubscription(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := subs.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Verify subscription (Admin)
// @Description  Activates the subscription; its window starts now when it has not started yet.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscriptions/{id}/verify [post]
func ApiVerifySubscription(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := subs.Verify(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Deactivate subscription (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscriptions/{id}/deactivate [post]
func ApiDeactivateSubscription(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := subs.Deactivate(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterAdminSubscriptionRoutes(r gin.IRouter, subs *subscription.Service) {
	r.POST("/scan", ApiScanSubscriptions(subs))
	r.GET("/:id", ApiGetSubscription(subs))
	r.POST("/:id/verify", ApiVerifySubscription(subs))
	r.POST("/:id/deactivate", ApiDeactivateSubscription(subs))
}
