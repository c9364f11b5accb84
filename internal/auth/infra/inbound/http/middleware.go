package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
	"github.com/davicafu/mstask/pkg/utils"
)

// RequireToken valida el token antes de llegar al handler. Cualquier fallo del
// validador responde el mismo 401; la causa concreta solo queda en el log.
func RequireToken(validator authDomain.TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			log.Debug("Request without token", zap.String("path", c.Request.URL.Path))
			utils.AbortUnauthorized(c, utils.MsgNoToken)
			return
		}

		err := validator.Validate(c.Request.Context(), header)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, authDomain.ErrValidatorUnavailable):
			log.Error("Auth service call failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			utils.AbortUnauthorized(c, utils.MsgInvalidToken)
		case errors.Is(err, authDomain.ErrNoToken):
			utils.AbortUnauthorized(c, utils.MsgNoToken)
		default:
			log.Info("Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			utils.AbortUnauthorized(c, utils.MsgInvalidToken)
		}
	}
}
