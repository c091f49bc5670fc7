package domain

import (
	"fmt"
	"time"
)

// EventKind is the kind of a ledger event related to a batch
type EventKind string

const (
	EventKindCreated     EventKind = "created"
	EventKindTransferred EventKind = "transferred"
	EventKindUpdated     EventKind = "updated"
	EventKindCompleted   EventKind = "completed"
)

// EventKinds lists every event kind the history merges
var EventKinds = []EventKind{EventKindCreated, EventKindTransferred, EventKindUpdated, EventKindCompleted}

// IsCustodyStep reports whether events of this kind move the batch along the chain
func (k EventKind) IsCustodyStep() bool {
	return k == EventKindCreated || k == EventKindTransferred || k == EventKindCompleted
}

// EventArgs holds the decoded, role-relevant arguments of a ledger event.
// Fields that the event kind does not carry stay empty.
type EventArgs struct {
	Product   string  `json:"product,omitempty"`
	Quantity  *uint64 `json:"quantity,omitempty"`
	Farmer    string  `json:"farmer,omitempty"`
	From      string  `json:"from,omitempty"`
	To        string  `json:"to,omitempty"`
	Role      string  `json:"role,omitempty"`
	Status    string  `json:"status,omitempty"`
	UpdatedBy string  `json:"updatedBy,omitempty"`
	Consumer  string  `json:"consumer,omitempty"`
}

// LedgerEvent is a decoded contract log, before any history enrichment
type LedgerEvent struct {
	Kind        EventKind `json:"kind"`
	BatchIDHash string    `json:"batchIdHash"`
	BlockNumber uint64    `json:"blockNumber"`
	BlockHash   string    `json:"blockHash"`
	LogIndex    uint      `json:"logIndex"`
	TxHash      string    `json:"txHash"`
	Args        EventArgs `json:"args"`
}

// Key identifies a ledger event uniquely across queries
func (e LedgerEvent) Key() string {
	return fmt.Sprintf("%s:%d", e.TxHash, e.LogIndex)
}

// HistoryEvent is a ledger event enriched with time, role and declared quantity
type HistoryEvent struct {
	Kind        EventKind  `json:"kind"`
	BlockNumber uint64     `json:"blockNumber"`
	LogIndex    uint       `json:"logIndex"`
	TxHash      string     `json:"txHash"`
	Args        EventArgs  `json:"args"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Role        Role       `json:"role,omitempty"`
	Actor       string     `json:"actor,omitempty"`
	Quantity    *uint64    `json:"quantity,omitempty"`
	Action      string     `json:"action"`
}

// ChainEvent is the normalized event format published to the message broker
type ChainEvent struct {
	ChainID         string      `json:"chain_id"`
	ContractAddress string      `json:"contract_address"`
	Event           LedgerEvent `json:"event"`
	Timestamp       time.Time   `json:"timestamp"`
}
