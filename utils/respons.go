package utils

import (
	"github.com/gin-gonic/gin"

	"foodtruck-ops/apperr"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError picks the status code from the error taxonomy.
// Non-domain errors come back as plain 500s without leaking internals.
func RespondDomainError(c *gin.Context, err error) {
	code := apperr.StatusOf(err)
	if code == 500 {
		ErrorLogger.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, JSONResponse{Status: false, Message: "internal server error"})
		return
	}
	c.JSON(code, JSONResponse{Status: false, Message: err.Error()})
}
