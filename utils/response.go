package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {"success": true, "data": ...}.
func JSONSuccess(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes {"success": false, "error": ...} and stops the chain.
func JSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": message})
}
