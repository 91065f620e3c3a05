package rest

import (
	"direct-chat/auth"
	"direct-chat/contract"
	"direct-chat/observability"
	"direct-chat/services"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const defaultMaxBodyBytes = 10 << 20

// Dependencies are the collaborators the HTTP layer talks to.
type Dependencies struct {
	Auth       services.IAuthService
	Social     services.ISocialGraphService
	Messages   services.IMessageService
	Presence   contract.IPresenceRegistry
	Tokens     *auth.TokenManager
	Metrics    *observability.Metrics
	Monitoring *observability.MonitoringManager

	ImageDir             string
	AllowedOrigins       []string
	ConnectionBufferSize int
	SecureCookie         bool
	MaxBodyBytes         int64
}

type Router struct {
	deps Dependencies
	log  *slog.Logger
}

func NewRouter(deps Dependencies, log *slog.Logger) *Router {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = defaultMaxBodyBytes
	}
	if deps.ConnectionBufferSize <= 0 {
		deps.ConnectionBufferSize = 32
	}
	return &Router{deps: deps, log: log}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.log))
	if rt.deps.Metrics != nil {
		router.Use(Instrument(rt.deps.Metrics))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.deps.Metrics != nil {
		router.Handle("/metrics", rt.deps.Metrics.Handler())
	}
	if rt.deps.Monitoring != nil {
		router.Get("/debug/stats", rt.debugStats)
	}
	if rt.deps.ImageDir != "" {
		router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(rt.deps.ImageDir))))
	}

	authHandler := NewAuthHandler(rt.deps.Auth, rt.deps.Tokens, rt.deps.SecureCookie, rt.log)
	socialHandler := NewSocialHandler(rt.deps.Social, rt.log)
	messageHandler := NewMessageHandler(rt.deps.Messages, rt.log)
	requireAuth := auth.Middleware(rt.deps.Tokens, rt.log)

	router.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.RequestSize(rt.deps.MaxBodyBytes))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/check", authHandler.Check)
				r.Put("/update-profile", authHandler.UpdateProfile)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/invite", socialHandler.Invite)
			r.Post("/accept", socialHandler.Accept)
			r.Get("/requests", socialHandler.PendingRequests)
			r.Get("/friends", socialHandler.Friends)
			r.Get("/contacts", socialHandler.Contacts)
			r.Get("/chats", messageHandler.ChatPartners)
			r.Get("/search", messageHandler.Search)
			r.Post("/send/{receiverId}", messageHandler.Send)
			r.Get("/{otherUserId}", messageHandler.Conversation)
		})
	})

	router.With(requireAuth).Get("/ws", NewWebsocketHandler(
		rt.deps.Presence, rt.deps.AllowedOrigins, rt.deps.ConnectionBufferSize, rt.log).ServeHTTP)

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (rt *Router) debugStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.deps.Monitoring.GetLatest())
}
