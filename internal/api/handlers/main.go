// filepath: internal/api/handlers/main.go
package handlers

import (
	"medialocker/internal/config"
	"medialocker/internal/services"
	"medialocker/internal/services/auth"
)

// Handlers holds the shared dependencies for the API handlers.
type Handlers struct {
	// Depend on interfaces, not concrete structs.
	User  services.UserService
	Image services.ImageService
	Token auth.TokenService

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	user services.UserService,
	image services.ImageService,
	token auth.TokenService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		User:  user,
		Image: image,
		Token: token,
		Cfg:   cfg,
	}
}
