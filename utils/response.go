package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success returns a 200 response carrying a data payload.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Data: data})
}

// Created returns a 201 response carrying a data payload.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, JSONResponse{Success: true, Data: data})
}

// Message returns a 200 response carrying only a human readable message.
func Message(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Message: message})
}

// Error returns an error response with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{Success: false, Message: message})
}
