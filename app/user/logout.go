package user

import (
	"net/http"

	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
)

// UserLogout always succeeds, even without a session
func UserLogout(c *gin.Context, d *internal.Deps) {
	http.SetCookie(c.Writer, d.Sessions.ExpiredCookie())
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully Logged Out",
	})
}
