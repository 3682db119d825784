package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/susu3304/creditbot/internal/commands"
	"github.com/susu3304/creditbot/internal/config"
)

type API struct {
	router      *mux.Router
	balances    commands.Balances
	redeemer    commands.Redeemer
	config      *config.Config
	oauthConfig *oauth2.Config
	jwtSecret   []byte
	server      *http.Server
}

func New(cfg *config.Config, balances commands.Balances, redeemer commands.Redeemer) *API {
	api := &API{
		router:    mux.NewRouter(),
		balances:  balances,
		redeemer:  redeemer,
		config:    cfg,
		jwtSecret: []byte(cfg.JWTSecret),
	}
	if cfg.OAuthEnabled() {
		api.oauthConfig = &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		}
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.router.Use(a.metricsMiddleware)

	a.router.Handle("/metrics", promhttp.Handler())
	a.router.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("GET")
	a.router.HandleFunc("/api/auth/callback", a.handleCallback).Methods("GET")
	a.router.HandleFunc("/api/auth/logout", a.handleLogout).Methods("POST")

	// Public endpoints
	a.router.HandleFunc("/api/public/leaderboard", a.handleLeaderboard).Methods("GET")
	a.router.HandleFunc("/api/public/users/{user_id}/balance", a.handleUserBalance).Methods("GET")

	// Protected endpoints
	protected := a.router.PathPrefix("/api/me").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("", a.handleMe).Methods("GET")
	protected.HandleFunc("/redeem", a.handleRedeem).Methods("POST")
}

func (a *API) Handler() http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false, // must stay false with a wildcard origin
	}
	return cors.New(corsOptions).Handler(a.router)
}

// Start serves until Shutdown is called.
func (a *API) Start() error {
	a.server = &http.Server{
		Addr:              a.config.WebBind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("API server listening on http://%s", a.config.WebBind)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
