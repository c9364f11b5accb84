// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Mensajes públicos. Los clientes existentes dependen de estos textos exactos.
const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid token"
	MsgTaskNotFound = "Task Not Found"
)

// ErrorResponse es el cuerpo de error de las rutas de tareas.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AuthErrorResponse es el cuerpo de los 401; usa "msg" en vez de "message".
type AuthErrorResponse struct {
	Msg string `json:"msg"`
}

// SendSuccess envía {message, <key>: data}.
func SendSuccess(c *gin.Context, message, key string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		key:       data,
	})
}

// SendTasks envía el listado envuelto en {tasks}.
func SendTasks(c *gin.Context, tasks interface{}) {
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// SendError envía {message} con el status indicado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Message: message})
}

// --- Helpers específicos para errores comunes ---

func SendNotFound(c *gin.Context) {
	SendError(c, http.StatusNotFound, MsgTaskNotFound)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// AbortUnauthorized corta la cadena de middlewares con un 401.
func AbortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, AuthErrorResponse{Msg: msg})
}
