package server

import "math/rand"

// CommandType enumerates the orders a side can give one of its soldiers.
type CommandType string

const (
	CommandMove       CommandType = "move"
	CommandRush       CommandType = "rush"
	CommandHold       CommandType = "hold"
	CommandRetreat    CommandType = "retreat"
	CommandRegroup    CommandType = "regroup"
	CommandPlant      CommandType = "plant"
	CommandDefuse     CommandType = "defuse"
	CommandUseUtility CommandType = "useUtility"
)

// isMovementClass reports whether a command steers the unit. At most one
// movement-class command may be in flight per unit.
func (t CommandType) isMovementClass() bool {
	switch t {
	case CommandMove, CommandRush, CommandHold, CommandRetreat, CommandRegroup:
		return true
	}
	return false
}

// Command is one queued order waiting out its radio delay.
type Command struct {
	Team      Team        `json:"team"`
	UnitIndex int         `json:"unit"`
	Type      CommandType `json:"type"`
	Target    *vec2       `json:"target,omitempty"`
	Utility   UtilityKind `json:"utility,omitempty"`
	IssuedAt  float64     `json:"issuedAt"`
	ExecuteAt float64     `json:"executeAt"`

	executed bool
}

// commandQueue buffers per-unit orders behind the radio delay and a per-unit
// cooldown. The rng stream is dedicated to delay jitter so intake timing
// never perturbs the tick-ordered match stream.
type commandQueue struct {
	pending     map[string][]*Command
	lastCommand map[string]float64
	rng         *rand.Rand
}

func newCommandQueue(seed string) *commandQueue {
	return &commandQueue{
		pending:     make(map[string][]*Command),
		lastCommand: make(map[string]float64),
		rng:         newDeterministicRNG(seed, "radio"),
	}
}

// Issue enqueues a command for the unit. It returns false when the unit is
// still cooling down from its previous order.
func (q *commandQueue) Issue(cmd Command, now float64, inCombat bool) bool {
	unitKey := soldierID(cmd.Team, cmd.UnitIndex)
	if last, ok := q.lastCommand[unitKey]; ok {
		if now-last < commandCooldown.Seconds() {
			return false
		}
	}

	delay := randomRange(q.rng, commandDelayMin, commandDelayMax)
	if inCombat {
		delay += commandDelayCombat
	}
	cmd.IssuedAt = now
	cmd.ExecuteAt = now + delay

	queue := q.pending[unitKey]
	if cmd.Type.isMovementClass() {
		// Replace any other in-flight movement order for this unit.
		filtered := queue[:0]
		for _, existing := range queue {
			if !existing.Type.isMovementClass() {
				filtered = append(filtered, existing)
			}
		}
		queue = filtered
	} else {
		other := 0
		for _, existing := range queue {
			if !existing.Type.isMovementClass() {
				other++
			}
		}
		if other >= commandQueueOtherCap {
			return false
		}
	}

	staged := cmd
	q.pending[unitKey] = append(queue, &staged)
	q.lastCommand[unitKey] = now
	return true
}

// DrainReady returns all commands whose delay has elapsed, in per-unit issue
// order, and purges them from the queue.
func (q *commandQueue) DrainReady(now float64) []Command {
	var ready []Command
	for _, team := range []Team{TeamAttackers, TeamDefenders} {
		for index := 0; index < teamSize; index++ {
			unitKey := soldierID(team, index)
			queue := q.pending[unitKey]
			if len(queue) == 0 {
				continue
			}
			remaining := queue[:0]
			for _, cmd := range queue {
				if cmd.ExecuteAt <= now {
					cmd.executed = true
					ready = append(ready, *cmd)
					continue
				}
				remaining = append(remaining, cmd)
			}
			if len(remaining) == 0 {
				delete(q.pending, unitKey)
			} else {
				q.pending[unitKey] = remaining
			}
		}
	}
	return ready
}

// PendingCount reports queued commands for one unit, used by diagnostics.
func (q *commandQueue) PendingCount(team Team, index int) int {
	return len(q.pending[soldierID(team, index)])
}

// Reset drops all queued commands at a round boundary.
func (q *commandQueue) Reset() {
	q.pending = make(map[string][]*Command)
	q.lastCommand = make(map[string]float64)
}
