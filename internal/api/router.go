// filepath: internal/api/router.go
package api

import (
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"medialocker/internal/api/handlers"
	"medialocker/internal/services/auth"
)

// SetupRouter configures the main router and its sub-routers: public
// endpoints, the authenticated image API, the media-file routes that
// additionally honor ?access_token=, and the admin surface.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/auth/register", h.Register).Methods("POST")

	// The anonymous view path: possession of the id is the capability.
	r.HandleFunc("/api/images/view/{id:[0-9]+}", h.ViewImage).Methods("GET")

	// Media file routes take the token from the header or the URL.
	mediaRouter := r.PathPrefix("/api/images").Subrouter()
	mediaRouter.Use(am.RequireMediaAuth)
	mediaRouter.HandleFunc("/{id:[0-9]+}/file", h.GetImageFile).Methods("GET")

	// Authenticated image API (header-only tokens).
	imageRouter := r.PathPrefix("/api/images").Subrouter()
	imageRouter.Use(am.RequireAuth)
	imageRouter.HandleFunc("", h.ListImages).Methods("GET")
	imageRouter.HandleFunc("", h.UploadImage).Methods("POST")
	imageRouter.HandleFunc("/batch", h.UploadImageBatch).Methods("POST")
	imageRouter.HandleFunc("/filenames", h.GetFilenames).Methods("GET")
	imageRouter.HandleFunc("/by-filename/{name}", h.GetImagesByFilename).Methods("GET")
	imageRouter.HandleFunc("/{id:[0-9]+}", h.DeleteImage).Methods("DELETE")
	imageRouter.HandleFunc("/{id:[0-9]+}/favourite", h.ToggleFavourite).Methods("POST")

	// Admin surface
	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(am.RequireAuth)
	adminRouter.Use(am.RequireAdmin)
	adminRouter.HandleFunc("/users", h.GetUsers).Methods("GET")
	adminRouter.HandleFunc("/users/{id:[0-9]+}/role", h.UpdateUserRole).Methods("PUT")
	adminRouter.HandleFunc("/users/{id:[0-9]+}/password", h.ResetUserPassword).Methods("PUT")
	adminRouter.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
	adminRouter.HandleFunc("/images", h.GetAllImages).Methods("GET")
	adminRouter.HandleFunc("/images/delete", h.BatchDeleteImages).Methods("POST")

	return r
}
