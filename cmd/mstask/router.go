package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
	authHTTP "github.com/davicafu/mstask/internal/auth/infra/inbound/http"
	taskApp "github.com/davicafu/mstask/internal/task/application"
	taskHTTP "github.com/davicafu/mstask/internal/task/infra/inbound/http"
	"github.com/davicafu/mstask/pkg/middleware"
)

// newRouter monta la cadena Recovery → log → CORS y registra las rutas.
func newRouter(port, corsOrigin string, service taskApp.Service, validator authDomain.TokenValidator, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(corsOrigin))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, fmt.Sprintf("The MicroService Tasks is running on port %s", port))
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := taskHTTP.NewTaskHandler(service, log)
	taskHTTP.RegisterTaskRoutes(r, handler, authHTTP.RequireToken(validator, log))
	return r
}
