package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmartell/postboard-be/internal/api/handlers"
	"github.com/jmartell/postboard-be/internal/auth"
	"github.com/jmartell/postboard-be/internal/services"
)

// NewRouter creates and configures a new Chi router. Routes under the
// guard group require a valid bearer token; register and login do not.
func NewRouter(tokens *auth.TokenService, userService services.UserServiceProvider, postService services.PostServiceProvider, allowedOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	postHandler := handlers.NewPostHandler(postService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		// Everything below requires authentication
		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(tokens))

			r.Get("/profile", userHandler.Profile)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.GetAll)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})
		})
	})

	return r
}
