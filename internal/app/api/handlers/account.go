package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/platform/storage"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      Current user
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/me [get]
func ApiMe(c *gin.Context) {
	c.JSON(http.StatusOK, response.OKT(mw.CurrentUser(c)))
}

// @Summary      Update profile
// @Description  Changes the caller's personal details. Omitted fields are kept.
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body account.ProfileUpdate true "Profile fields"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/me [put]
func ApiUpdateProfile(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		u, err := accounts.UpdateProfile(c.Request.Context(), mw.CurrentUser(c).ID, &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// profileImage uploads an identity document and stores its URL through set.
func profileImage(accounts *account.Service, up Uploader, folder string, set func(*account.ProfileUpdate, string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := saveUpload(c, up, folder)
		if err != nil {
			writeError(c, err)
			return
		}
		var req account.ProfileUpdate
		set(&req, url)
		u, err := accounts.UpdateProfile(c.Request.Context(), mw.CurrentUser(c).ID, &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// @Summary      Upload ID card
// @Tags         Account
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "ID card photo"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/me/id-card [post]
func ApiUploadIDCard(accounts *account.Service, up Uploader) gin.HandlerFunc {
	return profileImage(accounts, up, storage.FolderIDCards, func(p *account.ProfileUpdate, url string) { p.IDCardImage = &url })
}

// @Summary      Upload face photo
// @Tags         Account
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Face photo"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/me/face-id [post]
func ApiUploadFaceID(accounts *account.Service, up Uploader) gin.HandlerFunc {
	return profileImage(accounts, up, storage.FolderFaceIDs, func(p *account.ProfileUpdate, url string) { p.FaceIDImage = &url })
}

// @Summary      Subscription dashboard
// @Description  Groups the caller's subscriptions into active, expiring soon and expired. Parents also see what they bought for others.
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespDashboard
// @Router       /api/v1/me/dashboard [get]
func ApiDashboard(subs *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := subs.Dashboard(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(d))
	}
}

// @Summary      List child accounts
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespUsers
// @Router       /api/v1/me/children [get]
func ApiListChildren(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		children, err := accounts.ListChildren(c.Request.Context(), mw.CurrentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(children))
	}
}

// @Summary      Add child account
// @Description  Creates a child user identified by phone or CCCD. The temporary password is returned once.
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body account.AddChildRequest true "Child details"
// @Success      200  {object}  handlers.RespAddChild
// @Router       /api/v1/me/children [post]
func ApiAddChild(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.AddChildRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := accounts.AddChild(c.Request.Context(), mw.CurrentUser(c).ID, &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Remove child account
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Child user ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/me/children/{id} [delete]
func ApiRemoveChild(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.RemoveChild(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAccountRoutes(r gin.IRouter, accounts *account.Service, subs *subscription.Service, up Uploader) {
	r.GET("", ApiMe)
	r.PUT("", ApiUpdateProfile(accounts))
	r.POST("/id-card", ApiUploadIDCard(accounts, up))
	r.POST("/face-id", ApiUploadFaceID(accounts, up))
	r.GET("/dashboard", ApiDashboard(subs))
	r.GET("/children", ApiListChildren(accounts))
	r.POST("/children", ApiAddChild(accounts))
	r.DELETE("/children/:id", ApiRemoveChild(accounts))
}
