package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/storetis/internal/app/service/blog"
	"github.com/fatflowers/storetis/internal/platform/storage"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      Latest posts
// @Tags         Blog
// @Produce      json
// @Success      200  {object}  handlers.RespPosts
// @Router       /api/v1/posts/latest [get]
func ApiLatestPosts(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Latest(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Read post
// @Description  Returns the post and a few others to read next.
// @Tags         Blog
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  handlers.RespPostDetail
// @Router       /api/v1/posts/{slug} [get]
func ApiGetPost(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterBlogRoutes(r gin.IRouter, svc *blog.Service) {
	r.GET("/latest", ApiLatestPosts(svc))
	r.GET("/:slug", ApiGetPost(svc))
}

// @Summary      List posts (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespPosts
// @Router       /api/v1/admin/posts [get]
func ApiAdminListPosts(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get post (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  handlers.RespPost
// @Router       /api/v1/admin/posts/{id} [get]
func ApiAdminGetPost(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Create post (Admin)
// @Description  The slug is derived from the title when omitted, with a numeric suffix on collision.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body blog.PostInput true "Post"
// @Success      200  {object}  handlers.RespPost
// @Router       /api/v1/admin/posts [post]
func ApiCreatePost(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in blog.PostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Create(c.Request.Context(), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update post (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body blog.PostInput true "Post"
// @Success      200  {object}  handlers.RespPost
// @Router       /api/v1/admin/posts/{id} [put]
func ApiUpdatePost(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in blog.PostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Update(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Upload post image (Admin)
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        image formData file true "Cover image"
// @Success      200  {object}  handlers.RespPost
// @Router       /api/v1/admin/posts/{id}/image [post]
func ApiPostImage(svc *blog.Service, up Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := svc.Get(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		url, err := saveUpload(c, up, storage.FolderPostImages)
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := svc.SetImage(c.Request.Context(), c.Param("id"), url)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Delete post (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/posts/{id} [delete]
func ApiDeletePost(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminBlogRoutes(r gin.IRouter, svc *blog.Service, up Uploader) {
	r.GET("", ApiAdminListPosts(svc))
	r.POST("", ApiCreatePost(svc))
	r.GET("/:id", ApiAdminGetPost(svc))
	r.PUT("/:id", ApiUpdatePost(svc))
	r.DELETE("/:id", ApiDeletePost(svc))
	r.POST("/:id/image", ApiPostImage(svc, up))
}
