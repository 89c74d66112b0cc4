package stream

import (
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

// ProtocolVersion is bumped when a message layout changes
const ProtocolVersion = 1

// Message types sent to subscribers
const (
	TypeHello   = "HELLO"
	TypeTick    = "TICK"
	TypeDeposit = "DEPOSIT"
)

// HelloMsg is the first message on every connection
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	Tick            int64  `json:"tick"`
}

// EvictionMsg is one worker removed from a slot
type EvictionMsg struct {
	FieldID  string `json:"field_id"`
	WorkerID string `json:"worker_id"`
}

// TransitionMsg is one transport unit changing state
type TransitionMsg struct {
	UnitID  string  `json:"unit_id"`
	FieldID string  `json:"field_id,omitempty"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Loaded  float64 `json:"loaded,omitempty"`
}

// TickMsg summarizes one tick
type TickMsg struct {
	Type        string             `json:"type"`
	Tick        int64              `json:"tick"`
	Level       int                `json:"level"`
	Production  map[string]float64 `json:"production,omitempty"`
	Evictions   []EvictionMsg      `json:"evictions,omitempty"`
	Transitions []TransitionMsg    `json:"transitions,omitempty"`
}

// DepositMsg reports quantity that entered the central store
type DepositMsg struct {
	Type       string  `json:"type"`
	ResourceID string  `json:"resource_id"`
	Amount     float64 `json:"amount"`
	Stock      float64 `json:"stock"`
}

func tickMessage(report simulation.TickReport) TickMsg {
	msg := TickMsg{
		Type:       TypeTick,
		Tick:       report.Tick,
		Level:      report.Level,
		Production: report.Production,
	}
	for _, ev := range report.Evictions {
		msg.Evictions = append(msg.Evictions, EvictionMsg{FieldID: ev.FieldID, WorkerID: ev.WorkerID})
	}
	for _, tr := range report.Transitions {
		msg.Transitions = append(msg.Transitions, transitionMessage(tr))
	}
	return msg
}

func transitionMessage(tr fleet.Transition) TransitionMsg {
	return TransitionMsg{
		UnitID:  tr.UnitID,
		FieldID: tr.FieldID,
		From:    string(tr.From),
		To:      string(tr.To),
		Loaded:  tr.Loaded,
	}
}

func depositMessage(n storage.DepositNotification) DepositMsg {
	return DepositMsg{
		Type:       TypeDeposit,
		ResourceID: n.ResourceID,
		Amount:     n.Amount,
		Stock:      n.Stock,
	}
}
