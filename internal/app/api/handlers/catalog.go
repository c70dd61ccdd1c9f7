package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/catalog"
	"github.com/fatflowers/storetis/internal/platform/storage"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      List categories
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  handlers.RespCategories
// @Router       /api/v1/categories [get]
func ApiListCategories(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := cat.ListCategories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get category
// @Tags         Catalog
// @Produce      json
// @Param        slug path string true "Category slug"
// @Success      200  {object}  handlers.RespCategory
// @Router       /api/v1/categories/{slug} [get]
func ApiGetCategory(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := cat.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      List services
// @Description  Storefront listing, optionally narrowed to one category slug.
// @Tags         Catalog
// @Produce      json
// @Param        category query string false "Category slug"
// @Success      200  {object}  handlers.RespServices
// @Router       /api/v1/services [get]
func ApiListServices(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := cat.ListPublic(c.Request.Context(), c.Query("category"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get service
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200  {object}  handlers.RespService
// @Router       /api/v1/services/{id} [get]
func ApiGetService(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := cat.GetService(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// RegisterCatalogRoutes mounts the public storefront reads.
func RegisterCatalogRoutes(r gin.IRouter, cat *catalog.Service) {
	r.GET("/categories", ApiListCategories(cat))
	r.GET("/categories/:slug", ApiGetCategory(cat))
	r.GET("/services", ApiListServices(cat))
	r.GET("/services/:id", ApiGetService(cat))
}

// @Summary      Create category (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CategoryInput true "Category"
// @Success      200  {object}  handlers.RespCategory
// @Router       /api/v1/admin/categories [post]
func ApiCreateCategory(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.CreateCategory(c.Request.Context(), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update category (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        request body catalog.CategoryInput true "Category"
// @Success      200  {object}  handlers.RespCategory
// @Router       /api/v1/admin/categories/{id} [put]
func ApiUpdateCategory(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.UpdateCategory(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      List suppliers (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSuppliers
// @Router       /api/v1/admin/suppliers [get]
func ApiListSuppliers(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := cat.ListSuppliers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Create supplier (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.SupplierInput true "Supplier"
// @Success      200  {object}  handlers.RespSupplier
// @Router       /api/v1/admin/suppliers [post]
func ApiCreateSupplier(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.SupplierInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.CreateSupplier(c.Request.Context(), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update supplier (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier ID"
// @Param        request body catalog.SupplierInput true "Supplier"
// @Success      200  {object}  handlers.RespSupplier
// @Router       /api/v1/admin/suppliers/{id} [put]
func ApiUpdateSupplier(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.SupplierInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.UpdateSupplier(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Upload supplier logo (Admin)
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier ID"
// @Param        image formData file true "Logo"
// @Success      200  {object}  handlers.RespSupplier
// @Router       /api/v1/admin/suppliers/{id}/logo [post]
func ApiSupplierLogo(cat *catalog.Service, up Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := cat.GetSupplier(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		url, err := saveUpload(c, up, storage.FolderSupplierLogos)
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := cat.SetSupplierLogo(c.Request.Context(), c.Param("id"), url)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Delete supplier (Admin)
// @Description  Refused while services still reference the supplier.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/suppliers/{id} [delete]
func ApiDeleteSupplier(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cat.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List services (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Category ID"
// @Param        supplier query string false "Supplier ID"
// @Param        price    query string false "paid, free or contact"
// @Success      200  {object}  handlers.RespServices
// @Router       /api/v1/admin/services [get]
func ApiAdminListServices(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f catalog.ServiceFilter
		if err := c.ShouldBindQuery(&f); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.ListForStaff(c.Request.Context(), &f)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Create service (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.ServiceInput true "Service"
// @Success      200  {object}  handlers.RespService
// @Router       /api/v1/admin/services [post]
func ApiCreateService(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ServiceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.CreateService(c.Request.Context(), mw.CurrentUser(c).ID, &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update service (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        request body catalog.ServiceInput true "Service"
// @Success      200  {object}  handlers.RespService
// @Router       /api/v1/admin/services/{id} [put]
func ApiUpdateService(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ServiceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := cat.UpdateService(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Delete service (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/services/{id} [delete]
func ApiDeleteService(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cat.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Upload service thumbnail (Admin)
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        image formData file true "Thumbnail"
// @Success      200  {object}  handlers.RespService
// @Router       /api/v1/admin/services/{id}/thumbnail [post]
func ApiServiceThumbnail(cat *catalog.Service, up Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")
		if _, err := cat.GetService(ctx, id); err != nil {
			writeError(c, err)
			return
		}
		url, err := saveUpload(c, up, storage.FolderServiceThumbnails)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := cat.SetThumbnail(ctx, id, url); err != nil {
			writeError(c, err)
			return
		}
		out, err := cat.GetService(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Add service image (Admin)
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path     string true  "Service ID"
// @Param        image   formData file   true  "Image"
// @Param        caption formData string false "Caption"
// @Success      200  {object}  handlers.RespServiceImage
// @Router       /api/v1/admin/services/{id}/images [post]
func ApiAddServiceImage(cat *catalog.Service, up Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := cat.GetService(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		url, err := saveUpload(c, up, storage.FolderServiceImages)
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := cat.AddImage(c.Request.Context(), c.Param("id"), url, c.PostForm("caption"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Remove service image (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Service ID"
// @Param        image_id path string true "Image ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/services/{id}/images/{image_id} [delete]
func ApiRemoveServiceImage(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cat.RemoveImage(c.Request.Context(), c.Param("id"), c.Param("image_id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// RegisterAdminCatalogRoutes mounts catalog management under a staff group.
func RegisterAdminCatalogRoutes(r gin.IRouter, cat *catalog.Service, up Uploader) {
	r.GET("/categories", ApiListCategories(cat))
	r.POST("/categories", ApiCreateCategory(cat))
	r.PUT("/categories/:id", ApiUpdateCategory(cat))

	r.GET("/suppliers", ApiListSuppliers(cat))
	r.POST("/suppliers", ApiCreateSupplier(cat))
	r.PUT("/suppliers/:id", ApiUpdateSupplier(cat))
	r.DELETE("/suppliers/:id", ApiDeleteSupplier(cat))
	r.POST("/suppliers/:id/logo", ApiSupplierLogo(cat, up))

	r.GET("/services", ApiAdminListServices(cat))
	r.POST("/services", ApiCreateService(cat))
	r.GET("/services/:id", ApiGetService(cat))
	r.PUT("/services/:id", ApiUpdateService(cat))
	r.DELETE("/services/:id", ApiDeleteService(cat))
	r.POST("/services/:id/thumbnail", ApiServiceThumbnail(cat, up))
	r.POST("/services/:id/images", ApiAddServiceImage(cat, up))
	r.DELETE("/services/:id/images/:image_id", ApiRemoveServiceImage(cat))
}
