package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
)

// Error codes used in addition to domain kinds.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeNotFound    = "NOT_FOUND"
	codeUnavailable = "UNAVAILABLE"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// success writes a 200 envelope around data.
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// created writes a 201 envelope and points Location at the new resource.
func created(c *gin.Context, location string, data interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   errorBody{Code: code, Message: message},
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, codeBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, codeNotFound, message)
}

// respondError maps any surfaced error to 400, tagged with its domain kind.
func respondError(c *gin.Context, err error) {
	code := string(domain.KindOf(err))
	if code == "" {
		code = codeBadRequest
	}
	_ = c.Error(err)
	fail(c, http.StatusBadRequest, code, err.Error())
}
