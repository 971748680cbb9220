package server

// joinResponse tells a connecting player which side they command.
type joinResponse struct {
	Protocol int    `json:"protocol"`
	MatchID  string `json:"matchId"`
	Side     Team   `json:"side"`
	MapName  string `json:"map"`
	Seed     string `json:"seed"`
}

// clientMessage is the single inbound envelope. Type selects which optional
// block is read.
type clientMessage struct {
	Type string `json:"type"`

	// type == "command"
	Unit    int         `json:"unit,omitempty"`
	Command CommandType `json:"command,omitempty"`
	Target  *vec2       `json:"target,omitempty"`
	Utility UtilityKind `json:"utility,omitempty"`

	// type == "buy"
	Item string `json:"item,omitempty"`

	// type == "heartbeat"
	SentAt int64 `json:"sentAt,omitempty"`
}

// commandAck reports whether an order was accepted or rejected (cooldown,
// dead unit, wrong phase).
type commandAck struct {
	Type     string `json:"type"`
	Accepted bool   `json:"accepted"`
	Command  string `json:"command,omitempty"`
}

// stateMessage is the per-tick outbound envelope: the side's fog-of-war
// snapshot plus the tick's renderable events.
type stateMessage struct {
	Type       string       `json:"type"`
	ServerTime int64        `json:"serverTime"`
	State      SideSnapshot `json:"state"`
	Events     []Event      `json:"events,omitempty"`
}

// roundSummaryMessage carries the settled economy breakdown for UI display.
type roundSummaryMessage struct {
	Type    string           `json:"type"`
	Result  RoundResult      `json:"result"`
	Economy []*EconomyUpdate `json:"economy"`
}

// diagnosticsSnapshot backs the HTTP diagnostics endpoint.
type diagnosticsSnapshot struct {
	MatchID    string `json:"matchId"`
	Tick       uint64 `json:"tick"`
	Phase      Phase  `json:"phase"`
	Round      int    `json:"round"`
	Attackers  int    `json:"attackerScore"`
	Defenders  int    `json:"defenderScore"`
	Subscribed int    `json:"subscribed"`
}
