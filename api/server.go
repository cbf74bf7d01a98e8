package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"borsapulse/analytics"
	alertrepo "borsapulse/database/alerts"
	"borsapulse/database/prices"
	"borsapulse/database/snapshots"
	"borsapulse/notifications"
	"borsapulse/realtime"
)

// Server handles HTTP API requests
type Server struct {
	alertRepo  *alertrepo.Repository
	priceRepo  *prices.Repository
	snapRepo   *snapshots.Repository
	analyzer   *analytics.Analyzer
	webhookMgr *notifications.WebhookManager
	broker     *realtime.Broker
	lookback   int // candle window for on-demand analysis, in days
	benchmark  string
}

// NewServer creates a new API server instance
func NewServer(alertRepo *alertrepo.Repository, priceRepo *prices.Repository, snapRepo *snapshots.Repository, analyzer *analytics.Analyzer, webhookMgr *notifications.WebhookManager, broker *realtime.Broker, lookbackDays int, benchmarkSymbol string) *Server {
	return &Server{
		alertRepo:  alertRepo,
		priceRepo:  priceRepo,
		snapRepo:   snapRepo,
		analyzer:   analyzer,
		webhookMgr: webhookMgr,
		broker:     broker,
		lookback:   lookbackDays,
		benchmark:  benchmarkSymbol,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.Handle("GET /api/events", s.broker) // SSE endpoint

	// Alert Management Routes
	mux.HandleFunc("GET /api/alerts", s.handleGetAlerts)
	mux.HandleFunc("POST /api/alerts", s.handleCreateAlert)
	mux.HandleFunc("PUT /api/alerts/{id}", s.handleUpdateAlert)
	mux.HandleFunc("DELETE /api/alerts/{id}", s.handleDeleteAlert)
	mux.HandleFunc("POST /api/alerts/{id}/toggle", s.handleToggleAlert)
	mux.HandleFunc("GET /api/alerts/{id}/triggers", s.handleGetAlertTriggers)
	mux.HandleFunc("GET /api/triggers", s.handleGetTriggers)

	// Analytics Routes
	mux.HandleFunc("GET /api/analysis", s.handleGetAnalysis)
	mux.HandleFunc("GET /api/analysis/trend", s.handleGetTrend)
	mux.HandleFunc("GET /api/analysis/risk", s.handleGetRisk)
	mux.HandleFunc("GET /api/analysis/indicators", s.handleGetIndicators)
	mux.HandleFunc("GET /api/analysis/signals", s.handleGetSignals)
	mux.HandleFunc("GET /api/analysis/predictions", s.handleGetPredictions)
	mux.HandleFunc("GET /api/analysis/levels", s.handleGetLevels)
	mux.HandleFunc("GET /api/analysis/anomalies", s.handleGetAnomalies)
	mux.HandleFunc("GET /api/snapshots", s.handleGetSnapshots)

	// Market Data Routes
	mux.HandleFunc("GET /api/quotes", s.handleGetQuotes)
	mux.HandleFunc("GET /api/quotes/{symbol}", s.handleGetQuote)
	mux.HandleFunc("GET /api/candles", s.handleGetCandles)

	// Webhook Management Routes
	mux.HandleFunc("GET /api/config/webhooks", s.handleGetWebhooks)
	mux.HandleFunc("POST /api/config/webhooks", s.handleCreateWebhook)
	mux.HandleFunc("PUT /api/config/webhooks/{id}", s.handleUpdateWebhook)
	mux.HandleFunc("DELETE /api/config/webhooks/{id}", s.handleDeleteWebhook)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("GET /", fs)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Handlers are distributed across multiple files:
// - handlers_alerts.go: Alert CRUD and trigger history
// - handlers_analytics.go: On-demand analysis and snapshots
// - handlers_market.go: Quotes and candles
// - handlers_webhooks.go: Webhook config, health check
