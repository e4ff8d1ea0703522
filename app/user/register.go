package user

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// sessionResponse is the profile plus the session token, as returned by
// register and login
type sessionResponse struct {
	*model.Profile
	Token string `json:"token"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	s, err := d.Auth.Register(ctx, service.RegisterInput{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Info("User registered", zap.String("userID", s.Profile.ID), zap.String("requestID", requestID))

	http.SetCookie(c.Writer, d.Sessions.Cookie(s.Token, s.ExpiresAt))
	c.JSON(http.StatusCreated, sessionResponse{Profile: s.Profile, Token: s.Token})
}
