package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/platform/storage"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/response"
)

var nopLogger = zap.NewNop().Sugar()

// badRequest reports a malformed body or query.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
}

// writeError maps a service error to its response code. Field errors carry
// the offending fields as data; unknown errors are logged and hidden.
func writeError(c *gin.Context, err error) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeBadRequest, verr.Fields))
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrNotImage):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, errs.ErrInvalid):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeUnauthorized, err.Error()))
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeForbidden, err.Error()))
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeConflict, err.Error()))
	case errors.Is(err, checkout.ErrCreateOrder):
		c.JSON(http.StatusOK, response.Message(response.APIResponseCodeError, err.Error()))
	default:
		logctx.FromGin(c, nopLogger).Errorw("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, nil))
	}
}
