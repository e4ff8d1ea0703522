package user

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	p, err := d.Auth.Profile(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UserLoggedIn answers with a bare true or false and never fails
func UserLoggedIn(c *gin.Context, d *internal.Deps) {
	token, _ := c.Cookie(d.Sessions.CookieName())
	c.JSON(http.StatusOK, d.Auth.LoginStatus(token))
}
