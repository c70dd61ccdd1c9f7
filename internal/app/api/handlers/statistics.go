package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/statistics"
	"github.com/fatflowers/storetis/pkg/response"
)

// @Summary      Dashboard statistics (Admin)
// @Description  Computes the requested items. Per-consultant counts are only returned to superusers.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.Request true "Items to compute"
// @Success      200  {object}  handlers.RespStatistics
// @Router       /api/v1/admin/statistics [post]
func ApiStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Report(c.Request.Context(), mw.CurrentUser(c), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterStatisticsRoutes(r gin.IRouter, svc *statistics.Service) {
	r.POST("/statistics", ApiStatistics(svc))
}
