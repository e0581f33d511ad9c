package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/email"
	outboxStore "clubhouse/internal/adapters/storage/outbox"
	domain "clubhouse/internal/domain/outbox"
)

// EmailPayload is the JSON stored in an outbox entry for the email action.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// OutboxStoreForEnqueue defines the store interface needed to enqueue entries.
type OutboxStoreForEnqueue interface {
	Save(ctx context.Context, e domain.Entry) error
}

// EnqueueEmailInput carries input for the enqueue orchestrator.
type EnqueueEmailInput struct {
	To      []string
	Subject string
	HTML    string
}

// EnqueueEmailDeps holds dependencies for EnqueueEmail.
type EnqueueEmailDeps struct {
	OutboxStore OutboxStoreForEnqueue
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteEnqueueEmail records an email in the outbox for the worker to send.
// Sending never happens inline in a request: a provider outage only delays
// delivery, it cannot fail the user's operation.
// PRE: at least one recipient, non-empty subject
// POST: Pending outbox entry persisted
func ExecuteEnqueueEmail(ctx context.Context, input EnqueueEmailInput, deps EnqueueEmailDeps) (domain.Entry, error) {
	if len(input.To) == 0 {
		return domain.Entry{}, fmt.Errorf("email needs at least one recipient")
	}

	payload, err := json.Marshal(EmailPayload{To: input.To, Subject: input.Subject, HTML: input.HTML})
	if err != nil {
		return domain.Entry{}, err
	}

	e := domain.Entry{
		ID:          deps.GenerateID(),
		ActionType:  domain.ActionTypeEmail,
		Payload:     string(payload),
		Status:      domain.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   deps.Now(),
	}

	if err := e.Validate(); err != nil {
		return domain.Entry{}, err
	}
	if err := deps.OutboxStore.Save(ctx, e); err != nil {
		return domain.Entry{}, err
	}

	slog.Info("outbox_event", "event", "email_enqueued", "entry_id", e.ID, "subject", input.Subject)
	return e, nil
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the provider's message ID and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// EmailExecutor sends outbox email payloads through the configured provider.
type EmailExecutor struct {
	Sender email.Sender
}

// Execute decodes the payload and sends it.
func (x *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("decode email payload: %w", err)
	}
	res, err := x.Sender.Send(ctx, email.SendRequest{To: p.To, Subject: p.Subject, HTML: p.HTML})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// OutboxProcessor drains the outbox, retrying with exponential backoff.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending processes pending outbox entries with retries.
// PRE: Context is valid
// POST: Pending entries are processed, failed entries marked for retry
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}

	return nil
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	// Respect backoff between attempts
	if !entry.LastAttemptedAt.IsZero() {
		delay := entry.NextRetryDelay(p.baseDelay, p.maxDelay)
		if time.Since(entry.LastAttemptedAt) < delay {
			return nil
		}
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt()
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}

	return p.store.Save(ctx, entry)
}

// ProcessSingle manually processes one outbox entry (admin retry).
// PRE: entryID is non-empty
// POST: Entry is processed, status updated
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}

	if entry.IsTerminal() {
		return fmt.Errorf("entry %s is in terminal state and cannot be retried", entryID)
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		return fmt.Errorf("no executor registered for action type: %s", entry.ActionType)
	}

	entry.MarkAttempt()
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
	} else {
		entry.MarkSuccess(externalID)
	}

	return p.store.Save(ctx, entry)
}

// AbandonEntry marks an entry as abandoned by an admin.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	return p.store.Save(ctx, entry)
}

// RunWorker drains the outbox on an interval until the context ends.
func (p *OutboxProcessor) RunWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessPending(ctx); err != nil {
				slog.Error("outbox_worker_error", "error", err.Error())
			}
		}
	}
}
