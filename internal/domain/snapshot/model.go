package snapshot

import (
	"encoding/json"
	"errors"
	"time"
)

// Table identifies a snapshot-covered table. The set is closed: restore
// dispatches through this union, never through an unchecked string.
type Table string

// Restorable tables.
const (
	TableMembers      Table = "members"
	TableEvents       Table = "prefecture_events"
	TableCommissions  Table = "commissions"
	TableProjects     Table = "presidency_projects"
	TableTransactions Table = "transactions"
	TableGoals        Table = "goals"
	TableNotes        Table = "presidency_notes"
	TableVIPGuests    Table = "vip_guests"
	TableMeetings     Table = "board_meetings"
)

// RestorableTables lists every table restore can target.
var RestorableTables = []Table{
	TableMembers,
	TableEvents,
	TableCommissions,
	TableProjects,
	TableTransactions,
	TableGoals,
	TableNotes,
	TableVIPGuests,
	TableMeetings,
}

// Domain errors
var (
	ErrEmptyOwnerID   = errors.New("owner ID is required")
	ErrEmptyRecordID  = errors.New("record ID is required")
	ErrUnknownTable   = errors.New("snapshots are not kept for this table")
	ErrInvalidPayload = errors.New("snapshot data must be a JSON object")
)

// ValidTable reports whether t is a restorable table.
func ValidTable(t Table) bool {
	for _, known := range RestorableTables {
		if t == known {
			return true
		}
	}
	return false
}

// Snapshot is the stored prior state of one row, taken before a destructive
// update or delete. Restore overwrites the live row from Data, keyed by
// RecordID.
type Snapshot struct {
	ID        string
	OwnerID   string
	Table     Table
	RecordID  string
	Data      string // JSON object of the full row at snapshot time
	TakenBy   string // account ID of the actor whose operation triggered it
	CreatedAt time.Time
}

// Validate checks if the Snapshot has valid data.
// PRE: Snapshot struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Snapshot) Validate() error {
	if s.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if s.RecordID == "" {
		return ErrEmptyRecordID
	}
	if !ValidTable(s.Table) {
		return ErrUnknownTable
	}
	if !json.Valid([]byte(s.Data)) {
		return ErrInvalidPayload
	}
	if s.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
