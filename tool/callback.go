package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

func FastReturnError(msg string) gin.H {
	return gin.H{
		"message": msg,
	}
}

// FastReturnErrorWithCause adds the underlying cause (validation issues,
// upstream body) under "error".
func FastReturnErrorWithCause(msg string, cause any) gin.H {
	return gin.H{
		"message": msg,
		"error":   cause,
	}
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{
		"message": msg,
	}
	maps.Copy(resp, data)
	return resp
}
