package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"borsapulse/analytics"
	"borsapulse/api"
	"borsapulse/cache"
	"borsapulse/config"
	"borsapulse/database"
	alertrepo "borsapulse/database/alerts"
	models "borsapulse/database/models_pkg"
	"borsapulse/database/prices"
	"borsapulse/database/snapshots"
	"borsapulse/marketdata"
	"borsapulse/notifications"
	"borsapulse/realtime"
)

// App represents the main application
type App struct {
	config         *config.Config
	db             *database.Database
	redis          *cache.RedisClient
	alertRepo      *alertrepo.Repository
	priceRepo      *prices.Repository
	snapRepo       *snapshots.Repository
	analyzer       *analytics.Analyzer
	webhookManager *notifications.WebhookManager
	broker         *realtime.Broker
	poller         *marketdata.Poller
	stream         *marketdata.StreamClient
	alertEval      *AlertEvaluator
	snapRefresher  *SnapshotRefresher
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config:   cfg,
		analyzer: analytics.NewAnalyzer(cfg.Analytics),
	}
}

// Start starts the application
func (a *App) Start() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 3. Initialize schema and repositories
	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	a.alertRepo = alertrepo.NewRepository(a.db)
	a.priceRepo = prices.NewRepository(a.db)
	a.snapRepo = snapshots.NewRepository(a.db)

	// 4. Webhook Manager and Realtime Broker
	a.webhookManager = notifications.NewWebhookManager(a.alertRepo, a.redis)
	a.broker = realtime.NewBroker()
	go a.broker.Run()

	// 5. Market data poller
	a.poller = marketdata.NewPoller(
		a.config.MarketData.BaseURL,
		a.priceRepo,
		a.config.MarketData.Symbols,
		a.config.MarketData.LookbackDays,
		time.Duration(a.config.MarketData.PollIntervalMinutes)*time.Minute,
	)
	go a.poller.Start()

	// Setup WaitGroup for goroutines
	var wg sync.WaitGroup

	// 6. Live tick stream
	if a.config.MarketData.StreamEnabled {
		a.stream = marketdata.NewStreamClient(a.config.MarketData.StreamURL, a.config.MarketData.Symbols)
		if err := a.stream.Connect(); err != nil {
			log.Printf("⚠️  Tick stream connection failed, continuing with polling only: %v", err)
		} else {
			a.stream.StartPing(25 * time.Second)
			log.Println("✅ Tick stream connected")

			wg.Add(1)
			go func() {
				defer wg.Done()
				a.stream.RunHealthMonitor(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				a.readAndProcessTicks(ctx)
			}()
		}
	} else {
		log.Println("ℹ️  Tick stream DISABLED, using polling only")
	}

	// 7. Alert evaluator
	a.alertEval = NewAlertEvaluator(a.alertRepo, a.priceRepo, a.analyzer, a.webhookManager, a.broker, a.redis, a.config)
	go a.alertEval.Start()

	// 8. Scheduled analytics snapshots
	a.snapRefresher = NewSnapshotRefresher(a.priceRepo, a.snapRepo, a.analyzer, a.redis, a.config)
	if err := a.snapRefresher.Start(); err != nil {
		return fmt.Errorf("snapshot scheduler failed: %w", err)
	}

	// 9. Start API Server
	apiServer := api.NewServer(
		a.alertRepo,
		a.priceRepo,
		a.snapRepo,
		a.analyzer,
		a.webhookManager,
		a.broker,
		a.config.MarketData.LookbackDays,
		a.config.MarketData.BenchmarkSymbol,
	)
	go func() {
		if err := apiServer.Start(a.config.APIPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 10. Wait for interrupt and perform graceful shutdown
	err = a.gracefulShutdown(cancel)
	wg.Wait()
	return err
}

// readAndProcessTicks reads live ticks and folds them into quotes and
// the SSE stream, reconnecting with backoff on persistent errors.
func (a *App) readAndProcessTicks(ctx context.Context) {
	reconnectDelay := 5 * time.Second
	maxReconnectDelay := 60 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
			tick, err := a.stream.ReadTick()
			if err != nil {
				log.Printf("⚠️  Tick read error: %v", err)

				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
				}

				if err := a.stream.Reconnect(); err != nil {
					log.Printf("❌ Stream reconnect failed: %v", err)
					reconnectDelay *= 2
					if reconnectDelay > maxReconnectDelay {
						reconnectDelay = maxReconnectDelay
					}
				} else {
					reconnectDelay = 5 * time.Second
				}
				continue
			}

			a.processTick(tick)
		}
	}
}

func (a *App) processTick(tick *marketdata.Tick) {
	quote := &models.Quote{
		Symbol:    tick.Symbol,
		Price:     tick.Price,
		ChangePct: tick.ChangePct,
		Volume:    tick.Volume,
		UpdatedAt: tick.Timestamp,
	}
	if err := a.priceRepo.UpsertQuote(quote); err != nil {
		log.Printf("⚠️  Failed to store quote for %s: %v", tick.Symbol, err)
		return
	}

	if a.redis != nil {
		_ = a.redis.Set(context.Background(), "quote:"+tick.Symbol, quote, 5*time.Minute)
	}
	if a.broker != nil {
		a.broker.Broadcast("tick", tick)
	}
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc) error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop all goroutines
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown tasks with timeout
	shutdownComplete := make(chan struct{})
	go func() {
		if a.alertEval != nil {
			fmt.Println("🔔 Stopping alert evaluator...")
			a.alertEval.Stop()
		}
		if a.snapRefresher != nil {
			fmt.Println("📸 Stopping snapshot refresher...")
			a.snapRefresher.Stop()
		}
		if a.poller != nil {
			fmt.Println("📡 Stopping market data poller...")
			a.poller.Stop()
		}

		if a.stream != nil {
			fmt.Println("📡 Closing tick stream...")
			if err := a.stream.Close(); err != nil {
				log.Printf("Error closing tick stream: %v", err)
			} else {
				fmt.Println("✅ Tick stream closed")
			}
		}

		// Close database connection
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		// Close Redis connection
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
