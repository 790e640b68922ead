package http

import (
	"net/http"
	"time"

	"clienthub/internal/adapters/http/middleware"
	"clienthub/internal/config"
	"clienthub/internal/logger"
)

type RouterDeps struct {
	Client *ClientHandler
	Auth   *AuthHandler
}

func NewRouter(cfg *config.Config, log logger.Logger, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))
	globalMw.Use(middleware.RequestLog(log))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/clients/create", deps.Client.Create)
	mux.HandleFunc("POST /api/clients/create2", deps.Client.CreateSequential)
	mux.HandleFunc("GET /api/clients/{id}", deps.Client.Show)
	mux.HandleFunc("DELETE /api/clients/{id}", deps.Client.Destroy)

	mux.HandleFunc("POST /api/auth/token", deps.Auth.Token)
	mux.HandleFunc("POST /api/auth/verify", deps.Auth.Verify)

	// Stored avatars are served straight off the asset directory.
	avatarPrefix := cfg.AvatarURLPrefix + "/"
	mux.Handle("GET "+avatarPrefix, http.StripPrefix(avatarPrefix, http.FileServer(http.Dir(cfg.AvatarDir))))

	return globalMw.Apply(mux)
}

func NewServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
