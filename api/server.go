// Package api はaxisgraphのAPIサーバー実装を提供します。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/stsysd/axisgraph/config"
	"github.com/stsysd/axisgraph/model"
	"github.com/stsysd/axisgraph/store"
)

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	handler http.Handler
	store   store.Store
	config  *config.Config
	theme   *config.Theme
	logger  zerolog.Logger
	now     func() time.Time
}

// Option はServerの設定を変更します。
type Option func(*Server)

// WithLogger はサーバーのロガーを設定します。
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTheme はグラフの配色を設定します。
func WithTheme(theme *config.Theme) Option {
	return func(s *Server) {
		s.theme = theme
	}
}

// WithClock は現在時刻の取得方法を設定します（テスト用）。
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(st store.Store, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		router: http.NewServeMux(),
		store:  st,
		config: cfg,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.theme == nil {
		s.theme = config.DefaultTheme()
	}
	s.routes()
	s.handler = s.logMiddleware(s.router)
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックエンドポイントは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Project endpoints
	securedHandler.HandleFunc("GET /api/v0/p", s.handleListProjects)
	securedHandler.HandleFunc("POST /api/v0/p", s.handleCreateProject)
	securedHandler.HandleFunc("GET /api/v0/p/{project}", s.handleGetProject)
	securedHandler.HandleFunc("DELETE /api/v0/p/{project}", s.handleDeleteProject)
	securedHandler.HandleFunc("GET /api/v0/p/{project}/a", s.handleListActivities)
	securedHandler.HandleFunc("GET /api/v0/p/{project}/grid", s.handleGetGrid)

	// Activity endpoints
	securedHandler.HandleFunc("POST /api/v0/a", s.handleCreateActivity)
	securedHandler.HandleFunc("GET /api/v0/a/{activity_id}", s.handleGetActivity)
	securedHandler.HandleFunc("DELETE /api/v0/a/{activity_id}", s.handleDeleteActivity)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))

	// Graph endpoints - support both with and without .svg extension
	s.router.HandleFunc("GET /p/{project}/graph.svg", s.handleGetGraph)
	s.router.HandleFunc("GET /p/{project}/graph", s.handleGetGraph)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run はサーバーを指定されたアドレスで起動します。
// ctx がキャンセルされるとサーバーを停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON はJSON形式でレスポンスを返却します。
func writeJSON(w http.ResponseWriter, r *http.Request, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	writeJSON(w, r, ErrorResponse{Error: message, Code: statusCode}, statusCode)
}

// statusFor はストアのエラーに対応するHTTPステータスとメッセージを返します。
func statusFor(err error) (int, string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrProjectNotFound):
		return http.StatusNotFound, "Project not found"
	case errors.Is(err, model.ErrActivityNotFound):
		return http.StatusNotFound, "Activity not found"
	case errors.Is(err, model.ErrProjectExists):
		return http.StatusConflict, "Project already exists"
	default:
		return http.StatusInternalServerError, ""
	}
}

// writeStoreError はストアのエラーをHTTPステータスに変換して返却します。
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg(action)
		message = "Failed to " + action
	}
	writeJSONError(w, r, message, status)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}
