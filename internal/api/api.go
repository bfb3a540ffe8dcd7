package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/oauth2"

	"github.com/minhqv/nhombot/internal/command"
	"github.com/minhqv/nhombot/internal/config"
	"github.com/minhqv/nhombot/internal/db"
)

type API struct {
	router      *mux.Router
	db          *db.DB
	config      *config.Config
	processor   *command.Processor
	oauthConfig *oauth2.Config
	jwtSecret   []byte
}

func New(cfg *config.Config, database *db.DB, processor *command.Processor) *API {
	api := &API{
		router:    mux.NewRouter(),
		db:        database,
		config:    cfg,
		processor: processor,
		jwtSecret: []byte(cfg.JWTSecret),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		},
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Health check
	a.router.HandleFunc("/", a.handleHealth).Methods("GET")

	// Command processing: the same commands members type in chat,
	// driven by a web frontend instead.
	a.router.HandleFunc("/api/process", a.handleProcess).Methods("POST")

	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("GET")
	a.router.HandleFunc("/api/auth/callback", a.handleCallback).Methods("GET")
	a.router.HandleFunc("/api/auth/logout", a.handleLogout).Methods("POST")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/user/guilds", a.handleUserGuilds).Methods("GET")
	protected.HandleFunc("/guilds/{guild_id}/aliases", a.handleListAliases).Methods("GET")
	protected.HandleFunc("/guilds/{guild_id}/aliases", a.handleAddAlias).Methods("POST")
	protected.HandleFunc("/guilds/{guild_id}/aliases/{name}", a.handleUpdateAlias).Methods("PUT")
	protected.HandleFunc("/guilds/{guild_id}/aliases/{name}", a.handleDeleteAlias).Methods("DELETE")
}

func (a *API) Start() error {
	// Setup CORS - allow all origins for development, restrict in production
	// Note: When AllowedOrigins is "*", AllowCredentials must be false for security
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
