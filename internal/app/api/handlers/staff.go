package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/pkg/response"
)

type PromoteStaffRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// @Summary      List users (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        q    query string false "Search name, email, phone or CCCD"
// @Param        page query int    false "Page, from 1"
// @Param        size query int    false "Page size"
// @Success      200  {object}  handlers.RespUserPage
// @Router       /api/v1/admin/users [get]
func ApiListUsers(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q account.UserQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		out, err := accounts.ListUsers(c.Request.Context(), &q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update user flags (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body account.UserFlags true "Flags"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/admin/users/{id}/flags [put]
func ApiUpdateUserFlags(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.UserFlags
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := accounts.UpdateFlags(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterAdminUserRoutes(r gin.IRouter, accounts *account.Service) {
	r.GET("", ApiListUsers(accounts))
	r.PUT("/:id/flags", ApiUpdateUserFlags(accounts))
}

// @Summary      List staff
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespUsers
// @Router       /api/v1/admin/staff [get]
func ApiListStaff(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := accounts.ListStaff(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Promote to staff
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.PromoteStaffRequest true "Email, phone or CCCD"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/admin/staff [post]
func ApiPromoteStaff(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PromoteStaffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := accounts.PromoteStaff(c.Request.Context(), req.Identifier)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Remove staff rights
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/staff/{id} [delete]
func ApiDemoteStaff(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.DemoteStaff(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterStaffRoutes(r gin.IRouter, accounts *account.Service) {
	r.GET("", ApiListStaff(accounts))
	r.POST("", ApiPromoteStaff(accounts))
	r.DELETE("/:id", ApiDemoteStaff(accounts))
}
