package marketdata

import (
	"sync"
	"testing"
	"time"
)

func TestParseCandles(t *testing.T) {
	payload := candlePayload{
		Symbol:   "THYAO",
		Currency: "TRY",
		Bars: []struct {
			Date   string  `json:"date"`
			Open   float64 `json:"open"`
			High   float64 `json:"high"`
			Low    float64 `json:"low"`
			Close  float64 `json:"close"`
			Volume float64 `json:"volume"`
		}{
			{Date: "2025-01-06", Open: 100, High: 103, Low: 99, Close: 102, Volume: 1000},
			{Date: "2025-01-07", Open: 102, High: 105, Low: 101, Close: 104, Volume: 1100},
			{Date: "not-a-date", Close: 105, Volume: 900},
			{Date: "2025-01-07", Close: 106, Volume: 800}, // duplicate date
			{Date: "2025-01-08", Close: 0, Volume: 700},   // non-positive close
			{Date: "2025-01-09", Open: 104, High: 108, Low: 103, Close: 107, Volume: 1200},
		},
	}

	candles, err := parseCandles("THYAO", payload)
	if err != nil {
		t.Fatalf("parseCandles returned error: %v", err)
	}

	if len(candles) != 3 {
		t.Fatalf("expected 3 valid candles, got %d", len(candles))
	}

	wantDates := []string{"2025-01-06", "2025-01-07", "2025-01-09"}
	wantCloses := []float64{102, 104, 107}
	for i, c := range candles {
		if c.Symbol != "THYAO" {
			t.Errorf("candle %d: symbol = %q, want THYAO", i, c.Symbol)
		}
		if got := c.Bucket.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("candle %d: date = %s, want %s", i, got, wantDates[i])
		}
		if c.Close != wantCloses[i] {
			t.Errorf("candle %d: close = %f, want %f", i, c.Close, wantCloses[i])
		}
	}
}

func TestParseCandlesEmpty(t *testing.T) {
	candles, err := parseCandles("GARAN", candlePayload{Symbol: "GARAN"})
	if err != nil {
		t.Fatalf("parseCandles returned error: %v", err)
	}
	if len(candles) != 0 {
		t.Errorf("expected no candles, got %d", len(candles))
	}
}

func TestNewStreamClient(t *testing.T) {
	c := NewStreamClient("wss://example.test/stream", []string{"AAPL", "MSFT"})
	if c.url != "wss://example.test/stream" {
		t.Errorf("url = %q", c.url)
	}
	if len(c.symbols) != 2 {
		t.Errorf("symbols = %v", c.symbols)
	}
	if c.sinceLastMsg() > time.Minute {
		t.Error("lastMsgTime not initialized")
	}
}

func TestStreamClientDisconnectedErrors(t *testing.T) {
	c := NewStreamClient("wss://example.test/stream", nil)

	if _, err := c.ReadTick(); err == nil {
		t.Error("ReadTick on a disconnected client should error")
	}
	if err := c.subscribe(); err == nil {
		t.Error("subscribe on a disconnected client should error")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on a disconnected client should be a no-op, got %v", err)
	}
}

// The read loop and the health monitor touch connection state from
// separate goroutines; this keeps the race detector honest about it.
func TestStreamClientConcurrentState(t *testing.T) {
	c := NewStreamClient("wss://example.test/stream", nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.touch()
				_ = c.sinceLastMsg()
				_ = c.getConn()
				_ = c.Close()
			}
		}()
	}
	wg.Wait()

	if c.sinceLastMsg() > time.Minute {
		t.Error("lastMsgTime went backwards")
	}
}
