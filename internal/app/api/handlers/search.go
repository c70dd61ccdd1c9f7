package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/storetis/internal/app/service/search"
	"github.com/fatflowers/storetis/pkg/response"
)

type Searcher interface {
	Search(ctx context.Context, q string) (*search.Result, error)
}

// @Summary      Search
// @Description  Matches service and post names. Queries shorter than two characters return nothing.
// @Tags         Search
// @Produce      json
// @Param        q query string true "Query"
// @Success      200  {object}  handlers.RespSearch
// @Router       /api/v1/search [get]
func ApiSearch(svc Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterSearchRoutes(r gin.IRouter, svc Searcher) {
	r.GET("/search", ApiSearch(svc))
}
