package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/recipe-collection-be/internal/api/handlers"
	"github.com/isdelr/recipe-collection-be/internal/auth"
	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/isdelr/recipe-collection-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Hub             *websocket.Hub
	Sessions        *session.Manager
	Tokens          *auth.TokenIssuer
	Users           services.UserServiceProvider
	Chat            services.ChatServiceProvider
	Recommendations services.RecommendationServiceProvider
	Planner         services.PlannerServiceProvider
	AllowedOrigins  []string
	SecureCookies   bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", auth.RefreshHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, deps.Tokens, deps.SecureCookies)
	userHandler := handlers.NewUserHandler(deps.Users)
	recipeHandler := handlers.NewRecipeHandler()
	plannerHandler := handlers.NewPlannerHandler(deps.Planner)
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Recommendations, deps.Users, deps.Hub)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, chatHandler, deps.AllowedOrigins)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", sessionHandler.Create)

		// Session-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(auth.SessionMiddleware(deps.Tokens, deps.Sessions, deps.SecureCookies))

			r.Delete("/session", sessionHandler.End)
			r.Get("/state", sessionHandler.State)
			r.Put("/state/tab", sessionHandler.Navigate)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/signup", userHandler.Signup)
				r.Post("/login", userHandler.Login)
				r.Post("/logout", userHandler.Logout)
				r.With(auth.RequireLogin).Get("/me", userHandler.Me)
			})

			// Logged-in routes
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireLogin)

				r.Route("/recipes", func(r chi.Router) {
					r.Get("/", recipeHandler.List)
					r.Get("/filters", recipeHandler.Filters)
					r.Put("/category", recipeHandler.SelectCategory)
					r.Get("/{name}", recipeHandler.Get)
				})

				r.Route("/favorites", func(r chi.Router) {
					r.Get("/", plannerHandler.Favorites)
					r.Post("/{name}", plannerHandler.ToggleFavorite)
				})

				r.Route("/shopping-list", func(r chi.Router) {
					r.Get("/", plannerHandler.ShoppingList)
					r.Post("/", plannerHandler.AddShoppingItems)
					r.Delete("/", plannerHandler.RemoveShoppingItem)
					r.Post("/recipes/{name}", plannerHandler.AddRecipeIngredients)
				})

				r.Route("/meal-plan", func(r chi.Router) {
					r.Get("/", plannerHandler.MealPlan)
					r.Post("/", plannerHandler.AddMealPlanEntry)
					r.Post("/recipes/{name}", plannerHandler.AddRecipeToMealPlan)
				})

				r.Route("/chat", func(r chi.Router) {
					r.Get("/", chatHandler.History)
					r.Post("/", chatHandler.Send)
					r.Get("/ws", wsHandler.Serve)
				})

				r.Get("/recommendations", chatHandler.Recommendations)
			})
		})
	})

	return r
}
