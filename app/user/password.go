package user

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type changePasswordBody struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	Password    string `json:"password" form:"password"`
}

func UserChangePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data changePasswordBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := d.Auth.ChangePassword(ctx, userID, data.OldPassword, data.Password); err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Info("Password changed", zap.String("userID", userID), zap.String("requestID", requestID))
	c.String(http.StatusOK, "Password changed successfully")
}

type forgotPasswordBody struct {
	Email string `json:"email" form:"email"`
}

func UserForgotPassword(c *gin.Context, d *internal.Deps) {
	var data forgotPasswordBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := d.Auth.ForgotPassword(ctx, data.Email); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reset Email Sent",
	})
}

type resetPasswordBody struct {
	Password string `json:"password" form:"password"`
}

func UserResetPassword(c *gin.Context, d *internal.Deps) {
	var data resetPasswordBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := d.Auth.ResetPassword(ctx, c.Param("resetToken"), data.Password); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful, please log in with your new password",
	})
}
