// Package httpapi exposes the account and session operations over HTTP
// with JSON envelopes and cookie-carried tokens.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

type Server struct {
	address           string
	users             *services.UserService
	logger            logging.Logger
	accessTokenSecret []byte
	uploadDir         string
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService) *Server {
	return &Server{
		address:           cfg.EndpointAddrHTTP,
		users:             us,
		logger:            l.With("module", "http_server"),
		accessTokenSecret: []byte(cfg.AccessTokenSecret),
		uploadDir:         cfg.UploadDir,
	}
}

// routes wires the ServeMux. Registration, login and refresh are open;
// everything else sits behind the auth guard.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/users/refresh-token", s.handleRefresh)

	mux.HandleFunc("POST /api/v1/users/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /api/v1/users/current-user", s.requireAuth(s.handleCurrentUser))
	mux.HandleFunc("POST /api/v1/users/change-password", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("PATCH /api/v1/users/update-account", s.requireAuth(s.handleUpdateAccount))
	mux.HandleFunc("PATCH /api/v1/users/avatar", s.requireAuth(s.handleUpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", s.requireAuth(s.handleUpdateCoverImage))
	mux.HandleFunc("GET /api/v1/users/history", s.requireAuth(s.handleWatchHistory))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
