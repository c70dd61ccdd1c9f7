package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/cart"
	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/response"
)

// CartService is the cart surface used by the HTTP layer.
type CartService interface {
	Add(ctx context.Context, userID, serviceID string, durationDays int) (*cart.AddResult, error)
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	Remove(ctx context.Context, userID, itemID string) error
}

// CheckoutService turns cart lines into a draft and then an order.
type CheckoutService interface {
	CreateDraft(ctx context.Context, userID string, cartItemIDs []string) (*checkout.Draft, error)
	GetDraft(ctx context.Context, userID string) (*checkout.Draft, error)
	ConfirmDraft(ctx context.Context, userID string) (*models.Order, error)
}

type AddToCartRequest struct {
	ServiceID    string `json:"service_id" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required"`
}

type CreateDraftRequest struct {
	CartItemIDs []string `json:"cart_item_ids"`
}

// @Summary      List cart
// @Tags         Cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespCart
// @Router       /api/v1/cart [get]
func ApiListCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Add to cart
// @Description  Adds a service for the chosen number of days. Adding the same pair again returns the existing line.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.AddToCartRequest true "Cart line"
// @Success      200  {object}  handlers.RespCartAdd
// @Router       /api/v1/cart [post]
func ApiAddToCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Add(c.Request.Context(), mw.CurrentUser(c).ID, req.ServiceID, req.DurationDays)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Remove from cart
// @Tags         Cart
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Cart item ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/cart/{id} [delete]
func ApiRemoveFromCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Create draft order
// @Description  Snapshots the selected cart lines into a draft kept in the session store.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.CreateDraftRequest true "Selected cart lines"
// @Success      200  {object}  handlers.RespDraft
// @Router       /api/v1/checkout/draft [post]
func ApiCreateDraft(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		d, err := svc.CreateDraft(c.Request.Context(), mw.CurrentUser(c).ID, req.CartItemIDs)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(d))
	}
}

// @Summary      Get draft order
// @Tags         Checkout
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespDraft
// @Router       /api/v1/checkout/draft [get]
func ApiGetDraft(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.GetDraft(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(d))
	}
}

// @Summary      Confirm draft order
// @Description  Writes the draft to the order ledger and clears the purchased cart lines.
// @Tags         Checkout
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/checkout/confirm [post]
func ApiConfirmDraft(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.ConfirmDraft(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(o))
	}
}

func RegisterCartRoutes(r gin.IRouter, svc CartService) {
	r.GET("", ApiListCart(svc))
	r.POST("", ApiAddToCart(svc))
	r.DELETE("/:id", ApiRemoveFromCart(svc))
}

func RegisterCheckoutRoutes(r gin.IRouter, svc CheckoutService) {
	r.POST("/draft", ApiCreateDraft(svc))
	r.GET("/draft", ApiGetDraft(svc))
	r.POST("/confirm", ApiConfirmDraft(svc))
}
