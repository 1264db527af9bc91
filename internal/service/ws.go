package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/AfeiFun/ASR/internal/api"
)

// EventHub fans job lifecycle events out to websocket subscribers.
type EventHub struct {
	lock sync.Mutex
	subs map[chan api.JobEvent]struct{}
}

// NewEventHub creates an event hub
func NewEventHub() *EventHub {
	goapp.Log.Info().Msg("EventHub")
	return &EventHub{subs: map[chan api.JobEvent]struct{}{}}
}

// Publish sends the event to all subscribers. Slow subscribers drop events
// instead of blocking the publisher.
func (h *EventHub) Publish(event api.JobEvent) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			goapp.Log.Warn().Str("event", event.Event).Msg("subscriber full, drop event")
		}
	}
}

// Subscribe registers a listener. Call the returned func to unsubscribe.
func (h *EventHub) Subscribe() (<-chan api.JobEvent, func()) {
	ch := make(chan api.JobEvent, 10)
	h.lock.Lock()
	h.subs[ch] = struct{}{}
	h.lock.Unlock()
	return ch, func() {
		h.lock.Lock()
		delete(h.subs, ch)
		h.lock.Unlock()
		close(ch)
	}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

func subscribeJobs(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()

		return handleEvents(data.Ctx, ws, data.Events)
	}
}

// handleEvents pushes hub events to the connection until the client goes
// away or the service context is canceled.
func handleEvents(ctx context.Context, conn *websocket.Conn, hub *EventHub) error {
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	closed := readUntilClosed(conn)
	for {
		select {
		case <-ctx.Done():
			goapp.Log.Info().Msg("context canceled")
			return nil
		case <-closed:
			goapp.Log.Info().Msg("ws client gone")
			return nil
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				goapp.Log.Error().Err(err).Msg("write error")
				return nil
			}
		}
	}
}

// readUntilClosed drains client frames so pings are answered and close is
// detected.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	res := make(chan struct{})
	go func() {
		defer close(res)
		defer goapp.Log.Debug().Msg("read routine ended")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return res
}
