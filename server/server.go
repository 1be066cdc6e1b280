// Package server assembles the HTTP API: global middleware, CORS and the
// route table.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
	"github.com/ryantanww/MovAI/catalog"
	"github.com/ryantanww/MovAI/chat"
	"github.com/ryantanww/MovAI/config"
	_ "github.com/ryantanww/MovAI/docs" // registers the swagger document
	"github.com/ryantanww/MovAI/logging"
	"github.com/ryantanww/MovAI/users"
	"github.com/ryantanww/MovAI/watchlist"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the router exposes. Catalog and Chat are optional;
// their routes are only mounted when set.
type Deps struct {
	Server    *config.ServerConfig
	Logger    logging.Logger
	Store     Pinger
	Auth      *auth.AuthService
	Users     *users.UserService
	Watchlist *watchlist.WatchlistService
	Catalog   *catalog.Client
	Chat      *chat.ChatService
}

// NewRouter builds the chi router for the API.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(recoverer)
	if d.Server.WriteTimeout > 0 {
		r.Use(middleware.Timeout(d.Server.WriteTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteError(w, r, apperror.NewNotFoundError("Route not found!", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Error: "Method not allowed!", Msg: "Method not allowed!"})
	})

	r.Get("/healthz", healthz(d.Store))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authHandlers := auth.NewHandlers(d.Auth)
	userHandlers := users.NewUserHandlers(d.Users)
	watchlistHandlers := watchlist.NewWatchlistHandlers(d.Watchlist)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandlers.HandleSignup())
		r.Post("/login", authHandlers.HandleLogin())

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(d.Auth))

			r.Get("/user/{id}", userHandlers.HandleGetUsername())

			r.Post("/watchlist", watchlistHandlers.HandleAdd())
			r.Get("/watchlist", watchlistHandlers.HandleList())
			r.Delete("/watchlist", watchlistHandlers.HandleRemove())
		})

		if d.Catalog != nil {
			r.Route("/movies", catalog.NewCatalogHandlers(d.Catalog).Routes)
		}

		if d.Chat != nil {
			chatHandlers := chat.NewChatHandlers(d.Chat)
			r.Post("/chat", chatHandlers.HandleMessage())
			r.Get("/chat/suggestions", chatHandlers.HandleSuggestions())
		}
	})

	return r
}

func healthz(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn(ctx, "health check failed", "error", err)
			auth.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
