package controllers

import (
	"log"

	"civicvoice-be/apperr"

	"github.com/gin-gonic/gin"
)

// writeError maps the error taxonomy to a response; untyped errors are
// logged and surface as a generic 500.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": apperr.MessageOf(err)})
}
