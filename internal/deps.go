package internal

import (
	"elivtory/inventory-api/config"
	"elivtory/inventory-api/internal/service"
	"elivtory/inventory-api/internal/store"
	"elivtory/inventory-api/pkg/security"

	"github.com/chenyahui/gin-cache/persist"
	"gorm.io/gorm"
)

type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Store    *store.Store
	Argon    *security.ArgonHash
	Sessions *security.SessionIssuer
	Auth     *service.Auth
	Contact  *service.Contact
	Uploader *service.Uploader
	Cache    persist.CacheStore
}
