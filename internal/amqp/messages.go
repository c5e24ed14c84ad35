package amqp

import (
	"encoding/json"
	"time"

	"campfin/internal/core"
)

// Message type tags carried in the AMQP delivery Type field.
const (
	TypeFilingRows = "filing_rows"
	TypeRoster     = "roster"
)

// FilingRowsMessage carries one ingested batch of chart rows for an
// election cycle. The batch replaces the chart's previous rows; the
// scraper always publishes complete chart extracts, never deltas.
type FilingRowsMessage struct {
	Election  string        `json:"election"`
	Chart     string        `json:"chart"`
	Rows      []core.RawRow `json:"rows"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewFilingRowsMessage builds a batch message stamped with now.
func NewFilingRowsMessage(election, chart string, rows []core.RawRow) *FilingRowsMessage {
	return &FilingRowsMessage{
		Election:  election,
		Chart:     chart,
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *FilingRowsMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FilingRowsMessageFromJSON decodes a batch message.
func FilingRowsMessageFromJSON(data []byte) (*FilingRowsMessage, error) {
	var msg FilingRowsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RosterMessage carries the full candidate roster for an election.
type RosterMessage struct {
	Election  string              `json:"election"`
	Roster    []core.CandidateRef `json:"roster"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewRosterMessage builds a roster message stamped with now.
func NewRosterMessage(election string, roster []core.CandidateRef) *RosterMessage {
	return &RosterMessage{
		Election:  election,
		Roster:    roster,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RosterMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RosterMessageFromJSON decodes a roster message.
func RosterMessageFromJSON(data []byte) (*RosterMessage, error) {
	var msg RosterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
