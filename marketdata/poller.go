// Package marketdata fetches quotes and daily candles from the upstream
// market data provider, over HTTP polling and a live WebSocket stream.
package marketdata

import (
	"fmt"
	"log"
	"time"

	"borsapulse/analytics"
	models "borsapulse/database/models_pkg"
	"borsapulse/database/prices"

	"github.com/go-resty/resty/v2"
)

// candlePayload is the provider's JSON shape for daily history.
type candlePayload struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
	Bars     []struct {
		Date   string  `json:"date"` // 2006-01-02
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"bars"`
}

// Poller periodically fetches daily candle history for the configured
// symbols and upserts it into the prices repository.
type Poller struct {
	client       *resty.Client
	repo         *prices.Repository
	symbols      []string
	lookbackDays int
	interval     time.Duration
	done         chan bool
}

// NewPoller creates a new market data poller
func NewPoller(baseURL string, repo *prices.Repository, symbols []string, lookbackDays int, interval time.Duration) *Poller {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("User-Agent", "BorsaPulse/1.0")

	return &Poller{
		client:       client,
		repo:         repo,
		symbols:      symbols,
		lookbackDays: lookbackDays,
		interval:     interval,
		done:         make(chan bool),
	}
}

// Start begins the polling loop
func (p *Poller) Start() {
	log.Printf("📡 Market data poller started (%d symbols, every %v)", len(p.symbols), p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial run
	p.pollAll()

	for {
		select {
		case <-ticker.C:
			p.pollAll()
		case <-p.done:
			log.Println("📡 Market data poller stopped")
			return
		}
	}
}

// Stop stops the polling loop
func (p *Poller) Stop() {
	p.done <- true
}

func (p *Poller) pollAll() {
	updated := 0
	for _, symbol := range p.symbols {
		if err := p.pollSymbol(symbol); err != nil {
			log.Printf("⚠️  Failed to fetch %s: %v", symbol, err)
			continue
		}
		updated++
	}
	log.Printf("✅ Candle refresh complete: %d/%d symbols", updated, len(p.symbols))
}

func (p *Poller) pollSymbol(symbol string) error {
	var payload candlePayload
	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"days":   fmt.Sprintf("%d", p.lookbackDays),
		}).
		SetResult(&payload).
		Get("/candles/daily")
	if err != nil {
		return fmt.Errorf("pollSymbol: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pollSymbol: provider returned %s", resp.Status())
	}

	candles, err := parseCandles(symbol, payload)
	if err != nil {
		return fmt.Errorf("pollSymbol: %w", err)
	}
	if len(candles) == 0 {
		return nil
	}

	if err := p.repo.UpsertCandles(candles); err != nil {
		return err
	}

	// Refresh the quote from the newest bar so symbols without a live
	// stream still have a current price.
	last := candles[len(candles)-1]
	changePct := 0.0
	if len(candles) > 1 && candles[len(candles)-2].Close > 0 {
		changePct = (last.Close/candles[len(candles)-2].Close - 1) * 100
	}
	return p.repo.UpsertQuote(&models.Quote{
		Symbol:    symbol,
		Price:     last.Close,
		ChangePct: changePct,
		Volume:    last.Volume,
		Currency:  payload.Currency,
		UpdatedAt: time.Now(),
	})
}

// parseCandles converts a provider payload into candle rows, dropping
// bars that violate the series invariants (non-positive close,
// unparseable or out-of-order dates).
func parseCandles(symbol string, payload candlePayload) ([]models.Candle, error) {
	candles := make([]models.Candle, 0, len(payload.Bars))
	var prev time.Time
	for _, bar := range payload.Bars {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			log.Printf("⚠️  %s: skipping bar with bad date %q", symbol, bar.Date)
			continue
		}
		if bar.Close <= 0 || (!prev.IsZero() && !prev.Before(date)) {
			continue
		}
		prev = date

		candles = append(candles, models.Candle{
			Symbol: symbol,
			Bucket: date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	// Validate the close series before persisting
	if err := analytics.ValidateSeries(prices.ToPricePoints(candles)); err != nil {
		return nil, err
	}
	return candles, nil
}
