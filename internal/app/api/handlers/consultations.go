package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/consultation"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      Request consultation
// @Description  Routes the request to a random active consultant. A second request for the same service while one is open returns the open one.
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Success      200  {object}  handlers.RespConsultationRequest
// @Router       /api/v1/services/{id}/consultation [post]
func ApiRequestConsultation(svc *consultation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Request(c.Request.Context(), mw.CurrentUser(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List consultations (Admin)
// @Description  Superusers see every request; other staff see the ones assigned to them.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        filter query string false "pending (default), completed or all"
// @Success      200  {object}  handlers.RespConsultations
// @Router       /api/v1/admin/consultations [get]
func ApiListConsultations(svc *consultation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := consultation.ListFilter(c.DefaultQuery("filter", string(consultation.ListPending)))
		out, err := svc.List(c.Request.Context(), mw.CurrentUser(c), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Get consultation (Admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  handlers.RespConsultation
// @Router       /api/v1/admin/consultations/{id} [get]
func ApiGetConsultation(svc *consultation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), mw.CurrentUser(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Update consultation (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Param        request body consultation.UpdateInput true "Status and notes"
// @Success      200  {object}  handlers.RespConsultation
// @Router       /api/v1/admin/consultations/{id} [put]
func ApiUpdateConsultation(svc *consultation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in consultation.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Update(c.Request.Context(), mw.CurrentUser(c), c.Param("id"), &in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func RegisterAdminConsultationRoutes(r gin.IRouter, svc *consultation.Service) {
	r.GET("", ApiListConsultations(svc))
	r.GET("/:id", ApiGetConsultation(svc))
	r.PUT("/:id", ApiUpdateConsultation(svc))
}
