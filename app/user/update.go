package user

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
)

type updateBody struct {
	Name  string `json:"name" form:"name"`
	Phone string `json:"phone" form:"phone"`
	Bio   string `json:"bio" form:"bio"`
	Photo string `json:"photo" form:"photo"`
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	p, err := d.Auth.UpdateProfile(ctx, userID, service.ProfilePatch{
		Name:  data.Name,
		Phone: data.Phone,
		Bio:   data.Bio,
		Photo: data.Photo,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
