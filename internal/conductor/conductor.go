// Package conductor is a headless host client: it creates a room on the
// coordinator, prints the join code and renders every player's phrase
// events through the playback scheduler.
package conductor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jamspace/server/internal/phrase"
	"github.com/jamspace/server/internal/scheduler"
)

// localPlayerId keys the host's own preview loop in the scheduler; it
// never collides with server-assigned uuids.
const localPlayerId = "local"

type Config struct {
	ServerURL string
	NewSynth  scheduler.Factory
	Logger    *slog.Logger
}

type Conductor struct {
	sched  *scheduler.Scheduler
	logger *slog.Logger

	mu   sync.Mutex
	code string
}

type message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func New(newSynth scheduler.Factory, logger *slog.Logger) *Conductor {
	return &Conductor{
		sched:  scheduler.New(newSynth, phrase.Notation, localPlayerId, logger),
		logger: logger,
	}
}

// Run dials the coordinator, creates a room and consumes events until
// ctx is canceled or the connection drops. All loops are torn down on
// the way out.
func Run(ctx context.Context, cfg *Config) error {
	c := New(cfg.NewSynth, cfg.Logger)
	defer c.sched.Shutdown()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial coordinator: %w", err)
	}
	defer conn.Close()

	// unblock the read loop when ctx is canceled
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	if err := conn.WriteJSON(&message{Type: "create-room", Payload: map[string]any{}}); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		c.handleMessage(env.Type, env.Payload)
	}
}

// Code returns the room's join code, empty until session-created arrives.
func (c *Conductor) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// PreviewPhrase loops a phrase locally, the host's own instrument.
func (c *Conductor) PreviewPhrase(phraseId string) {
	c.sched.Play(localPlayerId, phraseId)
}

func (c *Conductor) StopPreview() {
	c.sched.Stop(localPlayerId)
}

// PreviewActive reports whether the host's own phrase is looping.
func (c *Conductor) PreviewActive() (string, bool) {
	return c.sched.LocalActive()
}

func (c *Conductor) handleMessage(messageType string, payload json.RawMessage) {
	switch messageType {
	case "session-created":
		var data struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			c.logger.Warn("malformed session-created", "error", err)
			return
		}
		c.mu.Lock()
		c.code = data.Code
		c.mu.Unlock()
		c.logger.Info("session created", "code", data.Code)

	case "player-joined":
		var data struct {
			Id   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			c.logger.Warn("malformed player-joined", "error", err)
			return
		}
		c.logger.Info("player joined", "player_id", data.Id, "name", data.Name)

	case "player-left":
		var data struct {
			PlayerId string `json:"player_id"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			c.logger.Warn("malformed player-left", "error", err)
			return
		}
		// a vanished player must not keep sounding
		c.sched.Stop(data.PlayerId)
		c.logger.Info("player left", "player_id", data.PlayerId)

	case "phrase-played":
		var data struct {
			PlayerId string `json:"player_id"`
			PhraseId string `json:"phrase_id"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			c.logger.Warn("malformed phrase-played", "error", err)
			return
		}
		c.sched.Play(data.PlayerId, data.PhraseId)

	case "phrase-stopped":
		var data struct {
			PlayerId string `json:"player_id"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			c.logger.Warn("malformed phrase-stopped", "error", err)
			return
		}
		c.sched.Stop(data.PlayerId)

	default:
		c.logger.Debug("ignoring message", "type", messageType)
	}
}

// Active exposes the scheduler's per-player state for display.
func (c *Conductor) Active(playerId string) (string, bool) {
	return c.sched.Active(playerId)
}
