package user

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	s, err := d.Auth.Login(ctx, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	http.SetCookie(c.Writer, d.Sessions.Cookie(s.Token, s.ExpiresAt))
	c.JSON(http.StatusOK, sessionResponse{Profile: s.Profile, Token: s.Token})
}
