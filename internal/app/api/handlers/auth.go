package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      Register
// @Description  Creates a customer account and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body account.RegisterRequest true "Registration form"
// @Success      200  {object}  handlers.RespLogin
// @Router       /api/v1/auth/register [post]
func ApiRegister(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		u, err := accounts.Register(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		token, exp, err := accounts.IssueToken(u.ID, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&account.LoginResult{Token: token, ExpiresAt: exp, User: u}))
	}
}

// @Summary      Login
// @Description  Exchanges an email, phone or CCCD plus password for a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body account.LoginRequest true "Credentials"
// @Success      200  {object}  handlers.RespLogin
// @Router       /api/v1/auth/login [post]
func ApiLogin(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := accounts.Login(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAuthRoutes(r gin.IRouter, accounts *account.Service) {
	r.POST("/register", ApiRegister(accounts))
	r.POST("/login", ApiLogin(accounts))
}
