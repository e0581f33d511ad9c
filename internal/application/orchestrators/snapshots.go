package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/domain/commission"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/goal"
	"clubhouse/internal/domain/meeting"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/note"
	"clubhouse/internal/domain/project"
	"clubhouse/internal/domain/snapshot"
	"clubhouse/internal/domain/transaction"
	"clubhouse/internal/domain/vipguest"
)

// SnapshotStoreForOrchestrator defines the store interface needed by snapshot orchestrators.
type SnapshotStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (snapshot.Snapshot, error)
	Save(ctx context.Context, s snapshot.Snapshot) error
}

// RestoreStores bundles the per-table save only restore needs. Every store's
// Save is an upsert, so restoring overwrites the live row or re-creates a
// deleted one.
type RestoreStores struct {
	Members interface {
		Save(ctx context.Context, m member.Member) error
	}
	Events interface {
		Save(ctx context.Context, e event.Event) error
	}
	Commissions interface {
		Save(ctx context.Context, c commission.Commission) error
	}
	Projects interface {
		Save(ctx context.Context, p project.Project) error
	}
	Transactions interface {
		Save(ctx context.Context, t transaction.Transaction) error
	}
	Goals interface {
		Save(ctx context.Context, g goal.Goal) error
	}
	Notes interface {
		Save(ctx context.Context, n note.Note) error
	}
	Guests interface {
		Save(ctx context.Context, g vipguest.Guest) error
	}
	Meetings interface {
		Save(ctx context.Context, m meeting.Meeting) error
	}
}

// --- Take Snapshot ---

// TakeSnapshotInput carries input for the take snapshot orchestrator.
type TakeSnapshotInput struct {
	OwnerID  string
	Table    snapshot.Table
	RecordID string
	TakenBy  string
	Record   any // the domain struct as it exists before the destructive write
}

// TakeSnapshotDeps holds dependencies for TakeSnapshot.
type TakeSnapshotDeps struct {
	SnapshotStore SnapshotStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteTakeSnapshot stores the prior state of a row before an update or
// delete. Failures are returned to the caller, which logs and proceeds: a
// missing snapshot must not block the user's write.
// PRE: Table is a restorable table, Record marshals to JSON
// POST: Snapshot row persisted
func ExecuteTakeSnapshot(ctx context.Context, input TakeSnapshotInput, deps TakeSnapshotDeps) (snapshot.Snapshot, error) {
	data, err := json.Marshal(input.Record)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	s := snapshot.Snapshot{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		Table:     input.Table,
		RecordID:  input.RecordID,
		Data:      string(data),
		TakenBy:   input.TakenBy,
		CreatedAt: deps.Now(),
	}

	if err := s.Validate(); err != nil {
		return snapshot.Snapshot{}, err
	}

	if err := deps.SnapshotStore.Save(ctx, s); err != nil {
		return snapshot.Snapshot{}, err
	}
	return s, nil
}

// --- Restore Snapshot ---

// RestoreSnapshotInput carries input for the restore orchestrator.
type RestoreSnapshotInput struct {
	OwnerID    string
	SnapshotID string
}

// RestoreSnapshotDeps holds dependencies for RestoreSnapshot.
type RestoreSnapshotDeps struct {
	SnapshotStore SnapshotStoreForOrchestrator
	Stores        RestoreStores
}

// ExecuteRestoreSnapshot overwrites a live row from a stored snapshot. The
// dispatch runs over the closed table union; a snapshot naming any other
// table is rejected before any write.
// PRE: SnapshotID names a snapshot in the admin's club
// POST: The snapshotted row is live again exactly as captured
func ExecuteRestoreSnapshot(ctx context.Context, input RestoreSnapshotInput, deps RestoreSnapshotDeps) error {
	snap, err := deps.SnapshotStore.GetByID(ctx, input.SnapshotID)
	if err != nil {
		return err
	}
	if snap.OwnerID != input.OwnerID {
		return errors.New("snapshot belongs to another club")
	}
	if !snapshot.ValidTable(snap.Table) {
		return snapshot.ErrUnknownTable
	}

	switch snap.Table {
	case snapshot.TableMembers:
		var m member.Member
		if err := json.Unmarshal([]byte(snap.Data), &m); err != nil {
			return err
		}
		err = deps.Stores.Members.Save(ctx, m)
	case snapshot.TableEvents:
		var e event.Event
		if err := json.Unmarshal([]byte(snap.Data), &e); err != nil {
			return err
		}
		err = deps.Stores.Events.Save(ctx, e)
	case snapshot.TableCommissions:
		var c commission.Commission
		if err := json.Unmarshal([]byte(snap.Data), &c); err != nil {
			return err
		}
		err = deps.Stores.Commissions.Save(ctx, c)
	case snapshot.TableProjects:
		var p project.Project
		if err := json.Unmarshal([]byte(snap.Data), &p); err != nil {
			return err
		}
		err = deps.Stores.Projects.Save(ctx, p)
	case snapshot.TableTransactions:
		var t transaction.Transaction
		if err := json.Unmarshal([]byte(snap.Data), &t); err != nil {
			return err
		}
		err = deps.Stores.Transactions.Save(ctx, t)
	case snapshot.TableGoals:
		var g goal.Goal
		if err := json.Unmarshal([]byte(snap.Data), &g); err != nil {
			return err
		}
		err = deps.Stores.Goals.Save(ctx, g)
	case snapshot.TableNotes:
		var n note.Note
		if err := json.Unmarshal([]byte(snap.Data), &n); err != nil {
			return err
		}
		err = deps.Stores.Notes.Save(ctx, n)
	case snapshot.TableVIPGuests:
		var g vipguest.Guest
		if err := json.Unmarshal([]byte(snap.Data), &g); err != nil {
			return err
		}
		err = deps.Stores.Guests.Save(ctx, g)
	case snapshot.TableMeetings:
		var m meeting.Meeting
		if err := json.Unmarshal([]byte(snap.Data), &m); err != nil {
			return err
		}
		err = deps.Stores.Meetings.Save(ctx, m)
	}
	if err != nil {
		return err
	}

	slog.Info("snapshot_event", "event", "snapshot_restored", "snapshot_id", snap.ID, "table", snap.Table, "record_id", snap.RecordID)
	return nil
}
