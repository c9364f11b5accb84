package http

import "github.com/gin-gonic/gin"

// RegisterTaskRoutes registra las rutas de tareas bajo /ms/task. Todas pasan por auth.
func RegisterTaskRoutes(r gin.IRouter, handler *TaskHandler, auth gin.HandlerFunc) {
	tasks := r.Group("/ms/task", auth)
	{
		tasks.POST("/create", handler.CreateTask)
		tasks.GET("/pending", handler.ListPending)
		tasks.GET("/high", handler.ListHighPriority)
		tasks.GET("/mean", handler.ListMediumPriority)
		tasks.GET("/low", handler.ListLowPriority)
		tasks.GET("/complete", handler.ListCompleted)
		tasks.GET("/:taskID", handler.GetTask)
		tasks.DELETE("/:taskID", handler.DeleteTask)
		tasks.PUT("/:taskID", handler.UpdateTask)
	}
}
