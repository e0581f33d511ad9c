package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/invite"
	"clubhouse/internal/domain/member"
)

// InviteStoreForOrchestrator defines the store interface needed by invite orchestrators.
type InviteStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (invite.Invite, error)
	GetByToken(ctx context.Context, token string) (invite.Invite, error)
	GetPendingByEmail(ctx context.Context, ownerID, email string) (invite.Invite, error)
	Save(ctx context.Context, i invite.Invite) error
}

// WaitingStoreForOrchestrator defines the store interface needed by waiting-list orchestrators.
type WaitingStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (invite.WaitingEntry, error)
	Save(ctx context.Context, w invite.WaitingEntry) error
	Delete(ctx context.Context, id string) error
}

// AccountStoreForInvite defines the account operations invite acceptance needs.
type AccountStoreForInvite interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// MemberStoreForInvite defines the member operations invite acceptance needs.
type MemberStoreForInvite interface {
	Save(ctx context.Context, m member.Member) error
}

var (
	ErrInvitePending = errors.New("a pending invite already exists for this email")
)

// newInviteToken returns a 64-char hex token for invite links.
func newInviteToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure means the host is broken
	}
	return hex.EncodeToString(b)
}

// --- Create Invite ---

// CreateInviteInput carries input for the create invite orchestrator.
type CreateInviteInput struct {
	OwnerID  string
	Email    string
	ClubName string
	BaseURL  string // e.g. https://portal.example.com
}

// CreateInviteDeps holds dependencies for CreateInvite.
type CreateInviteDeps struct {
	InviteStore InviteStoreForOrchestrator
	OutboxStore OutboxStoreForEnqueue
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateInvite issues an invite and queues the invitation email.
// PRE: Email is a plausible address with no pending invite in this club
// POST: Pending invite persisted, email enqueued in the outbox
func ExecuteCreateInvite(ctx context.Context, input CreateInviteInput, deps CreateInviteDeps) (invite.Invite, error) {
	if _, err := deps.InviteStore.GetPendingByEmail(ctx, input.OwnerID, input.Email); err == nil {
		return invite.Invite{}, ErrInvitePending
	}

	now := deps.Now()
	i := invite.Invite{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		Email:     input.Email,
		Token:     newInviteToken(),
		Status:    invite.StatusPending,
		ExpiresAt: now.Add(invite.DefaultTTL),
		CreatedAt: now,
	}

	if err := i.Validate(); err != nil {
		return invite.Invite{}, err
	}
	if err := deps.InviteStore.Save(ctx, i); err != nil {
		return invite.Invite{}, err
	}

	link := input.BaseURL + "/invite/" + i.Token
	_, err := ExecuteEnqueueEmail(ctx, EnqueueEmailInput{
		To:      []string{i.Email},
		Subject: email.InviteSubject(input.ClubName),
		HTML:    email.InviteHTML(input.ClubName, link, i.ExpiresAt),
	}, EnqueueEmailDeps{OutboxStore: deps.OutboxStore, GenerateID: deps.GenerateID, Now: deps.Now})
	if err != nil {
		// The invite stands; the admin can resend from the invite list.
		slog.Warn("invite_event", "event", "invite_email_enqueue_failed", "invite_id", i.ID, "error", err)
	}

	slog.Info("invite_event", "event", "invite_created", "invite_id", i.ID, "owner_id", i.OwnerID)
	return i, nil
}

// --- Accept Invite ---

// AcceptInviteInput carries input for the accept invite orchestrator.
type AcceptInviteInput struct {
	Token    string
	Name     string
	Password string
}

// AcceptInviteDeps holds dependencies for AcceptInvite.
type AcceptInviteDeps struct {
	InviteStore  InviteStoreForOrchestrator
	AccountStore AccountStoreForInvite
	MemberStore  MemberStoreForInvite
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteAcceptInvite turns a followed invite link into a member account and
// membership row scoped to the inviting club.
// PRE: Token names a pending, unexpired invite; Password meets policy
// POST: Active member account and member row exist, invite marked accepted
func ExecuteAcceptInvite(ctx context.Context, input AcceptInviteInput, deps AcceptInviteDeps) (member.Member, error) {
	i, err := deps.InviteStore.GetByToken(ctx, input.Token)
	if err != nil {
		return member.Member{}, account.ErrTokenInvalid
	}

	now := deps.Now()
	if err := i.Accept(now); err != nil {
		if errors.Is(err, invite.ErrExpired) {
			i.Status = invite.StatusExpired
			_ = deps.InviteStore.Save(ctx, i)
			return member.Member{}, account.ErrTokenExpired
		}
		return member.Member{}, err
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, i.Email); err == nil {
		return member.Member{}, ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     i.Email,
		Role:      account.RoleMember,
		Status:    account.StatusActive,
		Name:      input.Name,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return member.Member{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return member.Member{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return member.Member{}, err
	}

	m := member.Member{
		ID:        deps.GenerateID(),
		OwnerID:   i.OwnerID,
		AccountID: acct.ID,
		Name:      input.Name,
		Email:     i.Email,
		Status:    member.StatusActive,
		JoinedAt:  now,
		CreatedAt: now,
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	if err := deps.InviteStore.Save(ctx, i); err != nil {
		return member.Member{}, err
	}

	slog.Info("invite_event", "event", "invite_accepted", "invite_id", i.ID, "account_id", acct.ID)
	return m, nil
}

// --- Revoke Invite ---

// RevokeInviteInput carries input for the revoke invite orchestrator.
type RevokeInviteInput struct {
	OwnerID  string
	InviteID string
}

// RevokeInviteDeps holds dependencies for RevokeInvite.
type RevokeInviteDeps struct {
	InviteStore InviteStoreForOrchestrator
}

// ExecuteRevokeInvite withdraws a pending invite. The emailed link stops
// working immediately.
// PRE: InviteID names a pending invite in the admin's club
// POST: Invite status is revoked
func ExecuteRevokeInvite(ctx context.Context, input RevokeInviteInput, deps RevokeInviteDeps) error {
	i, err := deps.InviteStore.GetByID(ctx, input.InviteID)
	if err != nil {
		return err
	}
	if i.OwnerID != input.OwnerID {
		return errors.New("invite belongs to another club")
	}
	if err := i.Revoke(); err != nil {
		return err
	}
	if err := deps.InviteStore.Save(ctx, i); err != nil {
		return err
	}

	slog.Info("invite_event", "event", "invite_revoked", "invite_id", i.ID)
	return nil
}

// --- Join Waiting List ---

// JoinWaitingListInput carries input from the public club page form.
type JoinWaitingListInput struct {
	OwnerID string
	Name    string
	Email   string
	Message string
}

// JoinWaitingListDeps holds dependencies for JoinWaitingList.
type JoinWaitingListDeps struct {
	WaitingStore WaitingStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteJoinWaitingList records a membership request from the public page.
// PRE: Name and Email are non-empty
// POST: Waiting entry persisted for admin review
func ExecuteJoinWaitingList(ctx context.Context, input JoinWaitingListInput, deps JoinWaitingListDeps) (invite.WaitingEntry, error) {
	w := invite.WaitingEntry{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: deps.Now(),
	}

	if err := w.Validate(); err != nil {
		return invite.WaitingEntry{}, err
	}
	if err := deps.WaitingStore.Save(ctx, w); err != nil {
		return invite.WaitingEntry{}, err
	}

	slog.Info("invite_event", "event", "waiting_entry_added", "entry_id", w.ID, "owner_id", w.OwnerID)
	return w, nil
}

// --- Convert Waiting Entry ---

// ConvertWaitingEntryInput carries input for converting a waiting entry.
type ConvertWaitingEntryInput struct {
	OwnerID  string
	EntryID  string
	ClubName string
	BaseURL  string
}

// ConvertWaitingEntryDeps holds dependencies for ConvertWaitingEntry.
type ConvertWaitingEntryDeps struct {
	WaitingStore WaitingStoreForOrchestrator
	InviteStore  InviteStoreForOrchestrator
	OutboxStore  OutboxStoreForEnqueue
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteConvertWaitingEntry turns a waiting-list entry into an invite and
// removes the entry.
// PRE: EntryID names an entry in the admin's club
// POST: Invite created and emailed, entry deleted
func ExecuteConvertWaitingEntry(ctx context.Context, input ConvertWaitingEntryInput, deps ConvertWaitingEntryDeps) (invite.Invite, error) {
	w, err := deps.WaitingStore.GetByID(ctx, input.EntryID)
	if err != nil {
		return invite.Invite{}, err
	}
	if w.OwnerID != input.OwnerID {
		return invite.Invite{}, errors.New("waiting entry belongs to another club")
	}

	i, err := ExecuteCreateInvite(ctx, CreateInviteInput{
		OwnerID:  input.OwnerID,
		Email:    w.Email,
		ClubName: input.ClubName,
		BaseURL:  input.BaseURL,
	}, CreateInviteDeps{
		InviteStore: deps.InviteStore,
		OutboxStore: deps.OutboxStore,
		GenerateID:  deps.GenerateID,
		Now:         deps.Now,
	})
	if err != nil {
		return invite.Invite{}, err
	}

	if err := deps.WaitingStore.Delete(ctx, w.ID); err != nil {
		return invite.Invite{}, err
	}
	return i, nil
}
