// Package contact forwards messages from users to the support inbox
package contact

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type contactBody struct {
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

func ContactUs(c *gin.Context, d *internal.Deps) {
	var data contactBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := d.Contact.Send(ctx, middleware.CurrentUser(c), data.Subject, data.Message); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email Sent",
	})
}
