package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string)  { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)    { Error(c, http.StatusNotFound, msg) }
func TooLarge(c *gin.Context, msg string)    { Error(c, http.StatusRequestEntityTooLarge, msg) }
func Unavailable(c *gin.Context, msg string) { Error(c, http.StatusServiceUnavailable, msg) }
func Internal(c *gin.Context, msg string)    { Error(c, http.StatusInternalServerError, msg) }
