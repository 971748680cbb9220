package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tacstrike/server/internal/history"
	"tacstrike/server/logging"
)

// HubConfig wires one match hub.
type HubConfig struct {
	Seed      string
	Map       *MapDef
	Publisher logging.Publisher
	History   *history.Store
}

// Hub owns one live match: the world, both sides' subscribers, and the tick
// loop. Matches never share state; run one Hub per match.
type Hub struct {
	mu          sync.Mutex
	world       *World
	subscribers map[string]*Subscriber
	nextSubID   uint64

	matchID   string
	seed      string
	mapName   string
	publisher logging.Publisher
	history   *history.Store
}

// Subscriber is one attached websocket viewer of a side.
type Subscriber struct {
	id   string
	side Team
	conn *websocket.Conn
	mu   sync.Mutex

	lastHeartbeat time.Time
}

// NewHub constructs the match world and registers it with history.
func NewHub(cfg HubConfig) (*Hub, error) {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	world, err := NewWorld(MatchConfig{Seed: cfg.Seed, Map: cfg.Map, Publisher: publisher})
	if err != nil {
		return nil, err
	}

	hub := &Hub{
		world:       world,
		subscribers: make(map[string]*Subscriber),
		matchID:     uuid.NewString(),
		seed:        world.seed,
		mapName:     world.mapDef.Name,
		publisher:   publisher,
		history:     cfg.History,
	}
	if err := hub.history.StartMatch(hub.matchID, hub.seed, hub.mapName); err != nil {
		logging.InvariantViolated(context.Background(), publisher, 0, fmt.Sprintf("history start: %v", err))
	}
	return hub, nil
}

// Join assigns the requested side and returns the match handshake.
func (h *Hub) Join(side Team) joinResponse {
	return joinResponse{
		Protocol: ProtocolVersion,
		MatchID:  h.matchID,
		Side:     side,
		MapName:  h.mapName,
		Seed:     h.seed,
	}
}

// Subscribe attaches a websocket connection as a viewer of one side.
func (h *Hub) Subscribe(side Team, conn *websocket.Conn) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextSubID++
	sub := &Subscriber{
		id:            fmt.Sprintf("sub-%d", h.nextSubID),
		side:          side,
		conn:          conn,
		lastHeartbeat: time.Now(),
	}
	h.subscribers[sub.id] = sub
	return sub
}

// Unsubscribe detaches and closes a subscriber connection.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	sub.conn.Close()
}

// HandleMessage processes one inbound envelope from a subscriber. Command
// intake appends to the per-unit queues without blocking the tick.
func (h *Hub) HandleMessage(sub *Subscriber, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	switch msg.Type {
	case "command":
		h.mu.Lock()
		accepted := h.world.IssueCommand(Command{
			Team:      sub.side,
			UnitIndex: msg.Unit,
			Type:      msg.Command,
			Target:    msg.Target,
			Utility:   msg.Utility,
		})
		h.mu.Unlock()
		h.send(sub, commandAck{Type: "commandAck", Accepted: accepted, Command: string(msg.Command)})
	case "buy":
		h.mu.Lock()
		accepted := h.world.Buy(sub.side, msg.Unit, msg.Item)
		h.mu.Unlock()
		h.send(sub, commandAck{Type: "buyAck", Accepted: accepted, Command: msg.Item})
	case "heartbeat":
		sub.mu.Lock()
		sub.lastHeartbeat = time.Now()
		sub.mu.Unlock()
	}
}

// RunSimulation drives the fixed 200ms tick loop until the stop channel
// closes. The step always advances by the nominal tick duration, never the
// measured wall delta, so a replayed command stream stays bit-identical.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	dt := tickInterval.Seconds()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			output := h.world.Advance(dt)
			h.pruneStaleLocked(time.Now())
			h.mu.Unlock()

			h.broadcast(output)
			h.recordRound(output)
			if output.MatchEnded {
				return
			}
		}
	}
}

// AdvanceOnce steps the match a single tick outside the ticker; used by
// tests and headless drivers.
func (h *Hub) AdvanceOnce() StepOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.Advance(tickInterval.Seconds())
}

func (h *Hub) pruneStaleLocked(now time.Time) {
	for id, sub := range h.subscribers {
		sub.mu.Lock()
		stale := now.Sub(sub.lastHeartbeat) > disconnectAfter
		sub.mu.Unlock()
		if stale {
			delete(h.subscribers, id)
			sub.conn.Close()
		}
	}
}

// broadcast sends each subscriber its side's filtered snapshot plus the
// tick's events.
func (h *Hub) broadcast(output StepOutput) {
	h.mu.Lock()
	snapshots := [2]SideSnapshot{
		h.world.SnapshotFor(TeamAttackers),
		h.world.SnapshotFor(TeamDefenders),
	}
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	now := time.Now().UnixMilli()
	for _, sub := range subs {
		msg := stateMessage{
			Type:       "state",
			ServerTime: now,
			State:      snapshots[sub.side],
			Events:     output.Events,
		}
		h.send(sub, msg)
		if output.RoundEnded != nil {
			h.send(sub, roundSummaryMessage{
				Type:    "roundSummary",
				Result:  *output.RoundEnded,
				Economy: output.EconomyUpdates,
			})
		}
	}
}

func (h *Hub) send(sub *Subscriber, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.InvariantViolated(context.Background(), h.publisher, 0, fmt.Sprintf("marshal broadcast: %v", err))
		return
	}
	sub.mu.Lock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	writeErr := sub.conn.WriteMessage(websocket.TextMessage, data)
	sub.mu.Unlock()
	if writeErr != nil {
		h.Unsubscribe(sub)
	}
}

// recordRound persists settled rounds and the final match row.
func (h *Hub) recordRound(output StepOutput) {
	if output.RoundEnded == nil {
		return
	}
	result := output.RoundEnded
	if err := h.history.RecordRound(
		h.matchID, result.Round, result.Winner.String(), string(result.Reason),
		result.BombPlanted, result.BombDefused, result.BombExploded,
		result.DurationSec, result.Kills, output.EconomyUpdates,
	); err != nil {
		logging.InvariantViolated(context.Background(), h.publisher, output.Tick, fmt.Sprintf("history round: %v", err))
	}

	if output.MatchEnded {
		h.mu.Lock()
		attackers := h.world.Score(TeamAttackers)
		defenders := h.world.Score(TeamDefenders)
		h.mu.Unlock()
		winner := TeamAttackers
		if defenders > attackers {
			winner = TeamDefenders
		}
		if err := h.history.FinishMatch(h.matchID, attackers, defenders, winner.String()); err != nil {
			logging.InvariantViolated(context.Background(), h.publisher, output.Tick, fmt.Sprintf("history finish: %v", err))
		}
	}
}

// Diagnostics snapshots hub state for the HTTP endpoint.
func (h *Hub) Diagnostics() diagnosticsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return diagnosticsSnapshot{
		MatchID:    h.matchID,
		Tick:       h.world.currentTick,
		Phase:      h.world.Phase(),
		Round:      h.world.CurrentRound(),
		Attackers:  h.world.Score(TeamAttackers),
		Defenders:  h.world.Score(TeamDefenders),
		Subscribed: len(h.subscribers),
	}
}
