// Package migrationsource maintains the single upstream WebSocket
// connection that feeds newly graduated pump.fun tokens into the pipeline.
package migrationsource

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"pumpwatch/internal/providers"
)

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
)

const (
	baseReconnectDelay = 5 * time.Second
	maxReconnectDelay  = 25 * time.Second
	maxAttempts        = 10
	cooldownPeriod     = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// Source is the single-instance migration-event WebSocket client.
type Source struct {
	endpoint string
	price    *providers.PriceOracle
	bus      *Bus
	log      *log.Logger

	state atomic.Int32

	mu   sync.Mutex
	conn *websocket.Conn

	done    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// New builds a Source against endpoint, converting marketCapSol frames to
// USD via price.
func New(endpoint string, price *providers.PriceOracle, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.Default()
	}
	return &Source{
		endpoint: endpoint,
		price:    price,
		bus:      NewBus(logger),
		log:      logger,
		done:     make(chan struct{}),
	}
}

// Bus exposes the event bus for subscribers.
func (s *Source) Bus() *Bus { return s.bus }

// State reports the current connection state.
func (s *Source) State() State { return State(s.state.Load()) }

// Start begins the connect/reconnect loop in the background. Returns
// immediately; connection progress is reported via the bus.
func (s *Source) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop tears down the connection and exits the reconnect loop promptly.
func (s *Source) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	close(s.done)
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Source) run(ctx context.Context) {
	defer s.wg.Done()

	attempts := 0
	for {
		if s.stopped.Load() || ctx.Err() != nil {
			return
		}

		s.state.Store(int32(StateConnecting))
		conn, err := s.dial(ctx)
		if err != nil {
			s.log.Printf("migration source dial failed: %v", err)
			s.bus.Publish(Event{Kind: EventError, Err: err})
			attempts++
			if !s.backoff(ctx, attempts) {
				return
			}
			continue
		}

		attempts = 0
		s.state.Store(int32(StateOpen))
		s.bus.Publish(Event{Kind: EventConnected})

		pingDone := make(chan struct{})
		go s.pingLoop(conn, pingDone)

		s.readLoop(conn)

		close(pingDone)
		s.state.Store(int32(StateDisconnected))
		s.bus.Publish(Event{Kind: EventDisconnected})

		if s.stopped.Load() || ctx.Err() != nil {
			return
		}
		attempts++
		if !s.backoff(ctx, attempts) {
			return
		}
	}
}

// backoff waits the attempt-scaled delay, entering a cooldown after
// maxAttempts consecutive failures. Returns false if the wait was aborted
// by Stop or context cancellation.
func (s *Source) backoff(ctx context.Context, attempts int) bool {
	if attempts > maxAttempts {
		s.log.Printf("migration source: %d consecutive failures, cooling down %s", attempts, cooldownPeriod)
		return s.sleep(ctx, cooldownPeriod)
	}

	mult := attempts
	if mult > 5 {
		mult = 5
	}
	delay := baseReconnectDelay * time.Duration(mult)
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	return s.sleep(ctx, delay)
}

func (s *Source) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *Source) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	sub := map[string]interface{}{"method": "subscribeMigration"}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write subscription: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return conn, nil
}

func (s *Source) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Source) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		frame, err := parseFrame(raw)
		if err != nil {
			s.log.Printf("migration source: malformed frame: %v", err)
			continue
		}
		if frame.TxType != TxTypeMigration {
			continue
		}

		s.bus.Publish(Event{Kind: EventMigration, Migration: frame})
	}
}

// ResolveMarketCapUSD converts the frame's marketCapSol to USD via the price
// oracle. ok is false when the frame carries no marketCapSol, no oracle is
// configured, or the SOL price is unavailable.
func (s *Source) ResolveMarketCapUSD(ctx context.Context, frame MigrationFrame) (float64, bool) {
	if frame.MarketCapSol == nil || s.price == nil {
		return 0, false
	}
	return s.price.SolToUSD(ctx, *frame.MarketCapSol)
}
