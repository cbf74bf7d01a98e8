package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Tick is a single live price update from the stream.
type Tick struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	ChangePct float64   `json:"change_pct"`
	Timestamp time.Time `json:"timestamp"`
}

// subscribeRequest is the message sent after connecting to select symbols.
type subscribeRequest struct {
	Action  string   `json:"action"`
	Symbols []string `json:"symbols"`
}

// StreamClient maintains the live tick WebSocket connection, including
// keep-alive pings and reconnection with backoff. The read loop and the
// health monitor run on separate goroutines, so the connection pointer
// and the last-message timestamp are mutex-guarded.
type StreamClient struct {
	url     string
	symbols []string

	mu          sync.Mutex // guards conn, lastMsgTime, pingCancel
	conn        *websocket.Conn
	lastMsgTime time.Time
	pingCancel  context.CancelFunc

	writeMu     sync.Mutex // serializes writes on the connection
	reconnectMu sync.Mutex // serializes Reconnect attempts
}

// NewStreamClient creates a new live tick stream client
func NewStreamClient(url string, symbols []string) *StreamClient {
	return &StreamClient{
		url:         url,
		symbols:     symbols,
		lastMsgTime: time.Now(),
	}
}

func (s *StreamClient) getConn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *StreamClient) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *StreamClient) touch() {
	s.mu.Lock()
	s.lastMsgTime = time.Now()
	s.mu.Unlock()
}

func (s *StreamClient) sinceLastMsg() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastMsgTime)
}

// Connect establishes the WebSocket connection and subscribes to the
// configured symbols.
func (s *StreamClient) Connect() error {
	header := make(http.Header)
	header.Set("User-Agent", "BorsaPulse/1.0")

	conn, _, err := websocket.DefaultDialer.Dial(s.url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.url, err)
	}
	s.setConn(conn)
	log.Printf("✅ Connected to %s", s.url)

	return s.subscribe()
}

func (s *StreamClient) subscribe() error {
	req := subscribeRequest{
		Action:  "subscribe",
		Symbols: s.symbols,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	if err := s.write(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	log.Printf("📡 Subscribed to %d symbols", len(s.symbols))
	return nil
}

// StartPing starts periodic pings to keep the connection alive.
func (s *StreamClient) StartPing(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.pingCancel = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.write(websocket.PingMessage, nil); err != nil {
					log.Println("Failed to send ping:", err)
					return
				}
			}
		}
	}()
}

func (s *StreamClient) write(messageType int, data []byte) error {
	conn := s.getConn()
	if conn == nil {
		return fmt.Errorf("connection is nil")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteMessage(messageType, data)
}

// ReadTick reads and decodes the next tick from the stream.
func (s *StreamClient) ReadTick() (*Tick, error) {
	conn := s.getConn()
	if conn == nil {
		return nil, fmt.Errorf("client not connected")
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	s.touch()

	var tick Tick
	if err := json.Unmarshal(data, &tick); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tick: %w", err)
	}
	if tick.Symbol == "" || tick.Price <= 0 {
		return nil, fmt.Errorf("invalid tick: symbol=%q price=%f", tick.Symbol, tick.Price)
	}
	return &tick, nil
}

// Reconnect closes any existing connection and dials again with
// exponential backoff. Concurrent callers (the read loop and the health
// monitor) are serialized; the second caller re-dials after the first
// finishes, which is harmless.
func (s *StreamClient) Reconnect() error {
	s.reconnectMu.Lock()
	defer s.reconnectMu.Unlock()

	_ = s.Close()

	backoff := 2 * time.Second
	for attempt := 1; attempt <= 5; attempt++ {
		if err := s.Connect(); err != nil {
			log.Printf("⚠️  Reconnect attempt %d failed: %v", attempt, err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		s.StartPing(25 * time.Second)
		log.Println("✅ Reconnection successful")
		return nil
	}
	return fmt.Errorf("reconnect failed after 5 attempts")
}

// RunHealthMonitor starts a background loop that reconnects when the
// stream goes quiet for too long.
func (s *StreamClient) RunHealthMonitor(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	log.Println("💓 Stream health monitoring started")

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Stream health monitoring stopped")
			return
		case <-ticker.C:
			quiet := s.sinceLastMsg()

			// Quiet for 5 minutes means the connection is stale
			if quiet > 5*time.Minute {
				log.Printf("⚠️  No tick received for %v, reconnecting...", quiet.Round(time.Second))

				if err := s.Reconnect(); err != nil {
					log.Printf("❌ Stream reconnection failed: %v", err)
				} else {
					s.touch()
				}
			} else {
				log.Printf("💓 Stream healthy, last tick %v ago", quiet.Round(time.Second))
			}
		}
	}
}

// Close closes the WebSocket connection.
func (s *StreamClient) Close() error {
	s.mu.Lock()
	cancel := s.pingCancel
	s.pingCancel = nil
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
