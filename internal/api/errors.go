package api

import (
	"strconv"

	"campus-market/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes err as {"message", "code"}. Internal and dependency
// failures are logged and only their public message is returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	meta := apperr.MetadataFor(code)

	message := meta.PublicMessage
	if te := apperr.As(err); te != nil && meta.DetailsAllowed && te.Message() != "" {
		message = te.Message()
	}

	if meta.HTTPStatus >= 500 {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", string(code)),
			zap.Error(err))
	}

	c.JSON(meta.HTTPStatus, gin.H{
		"message": message,
		"code":    code,
	})
}

func badRequest(err error) error {
	return apperr.Wrap(apperr.CodeValidation, err, "invalid request body")
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.CodeValidation, "invalid %s", name)
	}
	return id, nil
}
