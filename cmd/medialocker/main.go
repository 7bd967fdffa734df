// filepath: cmd/medialocker/main.go
package main

import (
	"medialocker/internal/cli"

	// Import docs for Swagger
	_ "medialocker/docs"
)

// @title MediaLocker API
// @version 1.0.0
// @description Multi-user image locker with bearer-token auth, per-account ownership, and favourites.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
