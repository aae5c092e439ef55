package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"BarScope/internal/domain/models"
	drepo "BarScope/internal/domain/repository"
	applogger "BarScope/pkg/logger"
)

// Client implements a BarStream over a vendor WebSocket bar feed.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	l              *applogger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a WebSocket bar stream for the configured symbols.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, l *applogger.Logger) drepo.BarStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		l:              l,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	if c.l != nil {
		c.l.Info("bar stream connected", applogger.String("url", c.websocketURL))
	}
	return nil
}

// Subscribe subscribes to configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("bar stream not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		if c.l != nil {
			c.l.Info("bar stream subscribed", applogger.String("symbol", s))
		}
	}
	return nil
}

type wireBar struct {
	S string  `json:"s"`
	T int64   `json:"t"` // ms
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type wireMessage struct {
	Type string    `json:"type"`
	Data []wireBar `json:"data"`
}

// Read streams bar events and errors until the context is cancelled or the
// connection drops. Bars that fail validation are dropped at the edge.
func (c *Client) Read(ctx context.Context) (<-chan *models.Bar, <-chan error) {
	bars := make(chan *models.Bar, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(bars)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("bar stream conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("bar stream read: %w", err)
					return
				}
				var m wireMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-bar frames
					continue
				}
				if m.Type != "bar" {
					continue
				}
				for _, d := range m.Data {
					bar := &models.Bar{
						Symbol:    d.S,
						Timestamp: time.Unix(d.T/1000, 0).UTC(),
						Open:      d.O,
						High:      d.H,
						Low:       d.L,
						Close:     d.C,
						Volume:    d.V,
					}
					if err := bar.Validate(); err != nil {
						if c.l != nil {
							c.l.Warn("dropping malformed bar",
								applogger.String("symbol", d.S),
								applogger.Error(err),
							)
						}
						continue
					}
					select {
					case bars <- bar:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return bars, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
