// Package stubserver serves the analysis API with synthetic, deterministic
// data so the dashboard can run without the real service.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/phuslu/log"

	"github.com/dyike/cortexdash/internal/api"
)

// FailTicker makes POST /analyze answer 500, for exercising error paths.
const FailTicker = "FAIL"

var (
	CryptoSymbols = []string{"BTC", "ETH", "ADA", "SOL", "DOT", "LINK", "XRP", "DOGE", "AVAX", "MATIC"}

	TechnicalIndicators = []string{"20-Day SMA", "50-Day SMA", "RSI", "MACD", "Bollinger Bands", "EMA"}

	DefaultTickers = []string{"BTC", "ETH", "ADA"}
)

type Server struct {
	logger *log.Logger
	router *mux.Router
	now    func() time.Time
}

func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	s := &Server{logger: logger, now: time.Now}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/analyze", s.analyzeHandler).Methods("POST")
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.HandleFunc("/config", s.configHandler).Methods("GET")
	r.HandleFunc("/indicators", s.indicatorsHandler).Methods("GET")
	r.HandleFunc("/crypto-symbols", s.cryptoSymbolsHandler).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not Found")
	})
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("stub analysis server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("stub server failed: %w", err)
	}
	s.logger.Info().Msg("stub analysis server stopped")
	return nil
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req api.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	resp, status, err := analyze(req)
	if err != nil {
		s.logger.Warn().Err(err).Int("status", status).Msg("analysis rejected")
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) configHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.ConfigResponse{
		DefaultTickers:        DefaultTickers,
		DefaultLookbackDays:   365,
		CryptoSymbols:         CryptoSymbols,
		TechnicalIndicators:   TechnicalIndicators,
		RecommendationOptions: []string{"BUY", "HOLD", "SELL"},
	})
}

func (s *Server) indicatorsHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.IndicatorsResponse{Indicators: TechnicalIndicators})
}

func (s *Server) cryptoSymbolsHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.CryptoSymbolsResponse{CryptoSymbols: CryptoSymbols})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Int("status", status).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, api.APIError{Detail: detail, StatusCode: status})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
