package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/order"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/response"
	"github.com/fatflowers/storetis/pkg/types"
)

// OrderService is the ledger surface used by the HTTP layer.
type OrderService interface {
	ListForUser(ctx context.Context, userID string) ([]models.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error)
	ListForReview(ctx context.Context, f *order.ReviewFilter) ([]models.Order, error)
	Get(ctx context.Context, orderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, actorID, orderID string, status types.OrderStatus) (*order.StatusUpdate, error)
}

type UpdateOrderStatusRequest struct {
	Status types.OrderStatus `json:"status" binding:"required"`
}

// @Summary      My orders
// @Tags         Orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespOrders
// @Router       /api/v1/orders [get]
func ApiListMyOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ListForUser(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get my order
// @Tags         Orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/orders/{id} [get]
func ApiGetMyOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.GetForUser(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Review queue (Admin)
// @Description  Orders newest first. Without query parameters only pending orders are shown; an explicit empty status shows every status.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "pending, confirmed or cancelled"
// @Param        category query string false "Category ID"
// @Param        supplier query string false "Supplier ID"
// @Success      200  {object}  handlers.RespOrders
// @Router       /api/v1/admin/orders [get]
func ApiReviewOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter *order.ReviewFilter
		if len(c.Request.URL.Query()) > 0 {
			filter = &order.ReviewFilter{}
			if err := c.ShouldBindQuery(filter); err != nil {
				badRequest(c, err)
				return
			}
		}
		out, err := svc.ListForReview(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get order (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/admin/orders/{id} [get]
func ApiAdminGetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Change order status (Admin)
// @Description  Confirms or cancels a pending order. Confirming creates one unverified subscription per line.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body handlers.UpdateOrderStatusRequest true "Target status"
// @Success      200  {object}  handlers.RespStatusUpdate
// @Router       /api/v1/admin/orders/{id}/status [post]
func ApiUpdateOrderStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.UpdateStatus(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterOrderRoutes(r gin.IRouter, svc OrderService) {
	r.GET("", ApiListMyOrders(svc))
	r.GET("/:id", ApiGetMyOrder(svc))
}

func RegisterAdminOrderRoutes(r gin.IRouter, svc OrderService) {
	r.GET("", ApiReviewOrders(svc))
	r.GET("/:id", ApiAdminGetOrder(svc))
	r.POST("/:id/status", ApiUpdateOrderStatus(svc))
}
