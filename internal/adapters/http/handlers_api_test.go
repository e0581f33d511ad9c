package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/http/perf"
	accountStore "clubhouse/internal/adapters/storage/account"
	activityStore "clubhouse/internal/adapters/storage/activity"
	"clubhouse/internal/application/authz"
	"clubhouse/internal/application/listutil"

	accountDomain "clubhouse/internal/domain/account"
	activityDomain "clubhouse/internal/domain/activity"
	commissionDomain "clubhouse/internal/domain/commission"
	documentDomain "clubhouse/internal/domain/document"
	eventDomain "clubhouse/internal/domain/event"
	featureFlagDomain "clubhouse/internal/domain/featureflag"
	goalDomain "clubhouse/internal/domain/goal"
	inviteDomain "clubhouse/internal/domain/invite"
	meetingDomain "clubhouse/internal/domain/meeting"
	memberDomain "clubhouse/internal/domain/member"
	noteDomain "clubhouse/internal/domain/note"
	outboxDomain "clubhouse/internal/domain/outbox"
	permissionDomain "clubhouse/internal/domain/permission"
	profileDomain "clubhouse/internal/domain/profile"
	projectDomain "clubhouse/internal/domain/project"
	requestDomain "clubhouse/internal/domain/request"
	snapshotDomain "clubhouse/internal/domain/snapshot"
	transactionDomain "clubhouse/internal/domain/transaction"
	vipGuestDomain "clubhouse/internal/domain/vipguest"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByIDs(ctx context.Context, ids []string) ([]accountDomain.Account, error) {
	var list []accountDomain.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			list = append(list, a)
		}
	}
	return list, nil
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) List(ctx context.Context, filter accountStore.ListFilter) ([]accountDomain.Account, error) {
	var list []accountDomain.Account
	for _, a := range m.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockProfileStore struct {
	profiles map[string]profileDomain.Profile
}

func (m *mockProfileStore) GetByAccountID(ctx context.Context, accountID string) (profileDomain.Profile, error) {
	if p, ok := m.profiles[accountID]; ok {
		return p, nil
	}
	return profileDomain.Profile{}, sql.ErrNoRows
}

func (m *mockProfileStore) GetBySlug(ctx context.Context, slug string) (profileDomain.Profile, error) {
	for _, p := range m.profiles {
		if p.Slug == slug {
			return p, nil
		}
	}
	return profileDomain.Profile{}, sql.ErrNoRows
}

func (m *mockProfileStore) Save(ctx context.Context, p profileDomain.Profile) error {
	m.profiles[p.AccountID] = p
	return nil
}

type mockMemberStore struct {
	members map[string]memberDomain.Member
}

func (m *mockMemberStore) GetByID(ctx context.Context, id string) (memberDomain.Member, error) {
	if v, ok := m.members[id]; ok {
		return v, nil
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) GetByAccountID(ctx context.Context, accountID string) (memberDomain.Member, error) {
	for _, v := range m.members {
		if v.AccountID == accountID {
			return v, nil
		}
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) ListByOwnerID(ctx context.Context, ownerID string) ([]memberDomain.Member, error) {
	var list []memberDomain.Member
	for _, v := range m.members {
		if v.OwnerID == ownerID {
			list = append(list, v)
		}
	}
	return list, nil
}

func (m *mockMemberStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]memberDomain.Member, error) {
	var list []memberDomain.Member
	for _, v := range m.members {
		if v.OwnerID == ownerID && v.Status == status {
			list = append(list, v)
		}
	}
	return list, nil
}

func (m *mockMemberStore) Save(ctx context.Context, v memberDomain.Member) error {
	m.members[v.ID] = v
	return nil
}

func (m *mockMemberStore) Delete(ctx context.Context, id string) error {
	delete(m.members, id)
	return nil
}

func (m *mockMemberStore) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	n := 0
	for _, v := range m.members {
		if v.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

type mockPermissionStore struct {
	perms map[string]permissionDomain.SectionPermission
}

func (m *mockPermissionStore) GetByID(ctx context.Context, id string) (permissionDomain.SectionPermission, error) {
	if p, ok := m.perms[id]; ok {
		return p, nil
	}
	return permissionDomain.SectionPermission{}, sql.ErrNoRows
}

func (m *mockPermissionStore) ListByUserID(ctx context.Context, userID string) ([]permissionDomain.SectionPermission, error) {
	var list []permissionDomain.SectionPermission
	for _, p := range m.perms {
		if p.UserID == userID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPermissionStore) ListByOwnerID(ctx context.Context, ownerID string) ([]permissionDomain.SectionPermission, error) {
	var list []permissionDomain.SectionPermission
	for _, p := range m.perms {
		if p.OwnerID == ownerID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPermissionStore) ListResponsible(ctx context.Context, ownerID string, section permissionDomain.Section) ([]permissionDomain.SectionPermission, error) {
	var list []permissionDomain.SectionPermission
	for _, p := range m.perms {
		if p.OwnerID == ownerID && p.Section == section && p.IsResponsible {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPermissionStore) Save(ctx context.Context, p permissionDomain.SectionPermission) error {
	m.perms[p.ID] = p
	return nil
}

func (m *mockPermissionStore) Delete(ctx context.Context, id string) error {
	delete(m.perms, id)
	return nil
}

func (m *mockPermissionStore) SetResponsible(ctx context.Context, ownerID string, section permissionDomain.Section, permissionID string) error {
	for id, p := range m.perms {
		if p.OwnerID == ownerID && p.Section == section {
			p.IsResponsible = id == permissionID
			m.perms[id] = p
		}
	}
	return nil
}

type mockRequestStore struct {
	requests map[string]requestDomain.SectionRequest
}

func (m *mockRequestStore) GetByID(ctx context.Context, id string) (requestDomain.SectionRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return requestDomain.SectionRequest{}, sql.ErrNoRows
}

func (m *mockRequestStore) Save(ctx context.Context, r requestDomain.SectionRequest) error {
	m.requests[r.ID] = r
	return nil
}

func (m *mockRequestStore) Delete(ctx context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *mockRequestStore) ListTopLevel(ctx context.Context, ownerID string, section permissionDomain.Section, status string) ([]requestDomain.SectionRequest, error) {
	var list []requestDomain.SectionRequest
	for _, r := range m.requests {
		if r.OwnerID == ownerID && r.Section == section && r.ParentID == "" && r.Status == status {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockRequestStore) ListRepliesByParentIDs(ctx context.Context, parentIDs []string) ([]requestDomain.SectionRequest, error) {
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	var list []requestDomain.SectionRequest
	for _, r := range m.requests {
		if wanted[r.ParentID] {
			list = append(list, r)
		}
	}
	return list, nil
}

type mockEventStore struct {
	events map[string]eventDomain.Event
}

func (m *mockEventStore) GetByID(ctx context.Context, id string) (eventDomain.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return eventDomain.Event{}, sql.ErrNoRows
}

func (m *mockEventStore) ListByOwnerID(ctx context.Context, ownerID string) ([]eventDomain.Event, error) {
	var list []eventDomain.Event
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockEventStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]eventDomain.Event, error) {
	var list []eventDomain.Event
	for _, e := range m.events {
		if e.OwnerID == ownerID && e.Status == status {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockEventStore) ListPublicUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]eventDomain.Event, error) {
	var list []eventDomain.Event
	for _, e := range m.events {
		if e.OwnerID == ownerID && e.Public && e.Status != eventDomain.StatusCancelled && !e.StartsAt.Before(from) {
			list = append(list, e)
		}
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *mockEventStore) Save(ctx context.Context, e eventDomain.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

type mockDistrictEventStore struct {
	events map[string]eventDomain.DistrictEvent
}

func (m *mockDistrictEventStore) GetByID(ctx context.Context, id string) (eventDomain.DistrictEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return eventDomain.DistrictEvent{}, sql.ErrNoRows
}

func (m *mockDistrictEventStore) ListByOwnerID(ctx context.Context, ownerID string) ([]eventDomain.DistrictEvent, error) {
	var list []eventDomain.DistrictEvent
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockDistrictEventStore) Save(ctx context.Context, e eventDomain.DistrictEvent) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockDistrictEventStore) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

type mockCommissionStore struct {
	commissions map[string]commissionDomain.Commission
}

func (m *mockCommissionStore) GetByID(ctx context.Context, id string) (commissionDomain.Commission, error) {
	if c, ok := m.commissions[id]; ok {
		return c, nil
	}
	return commissionDomain.Commission{}, sql.ErrNoRows
}

func (m *mockCommissionStore) ListByOwnerID(ctx context.Context, ownerID string) ([]commissionDomain.Commission, error) {
	var list []commissionDomain.Commission
	for _, c := range m.commissions {
		if c.OwnerID == ownerID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCommissionStore) Save(ctx context.Context, c commissionDomain.Commission) error {
	m.commissions[c.ID] = c
	return nil
}

func (m *mockCommissionStore) Delete(ctx context.Context, id string) error {
	delete(m.commissions, id)
	return nil
}

type mockProjectStore struct {
	projects map[string]projectDomain.Project
}

func (m *mockProjectStore) GetByID(ctx context.Context, id string) (projectDomain.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return projectDomain.Project{}, sql.ErrNoRows
}

func (m *mockProjectStore) ListByOwnerID(ctx context.Context, ownerID string) ([]projectDomain.Project, error) {
	var list []projectDomain.Project
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockProjectStore) ListByCommissionID(ctx context.Context, commissionID string) ([]projectDomain.Project, error) {
	var list []projectDomain.Project
	for _, p := range m.projects {
		if p.CommissionID == commissionID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockProjectStore) Save(ctx context.Context, p projectDomain.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectStore) Delete(ctx context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

type mockTransactionStore struct {
	transactions map[string]transactionDomain.Transaction
}

func (m *mockTransactionStore) GetByID(ctx context.Context, id string) (transactionDomain.Transaction, error) {
	if t, ok := m.transactions[id]; ok {
		return t, nil
	}
	return transactionDomain.Transaction{}, sql.ErrNoRows
}

func (m *mockTransactionStore) ListByOwnerID(ctx context.Context, ownerID string) ([]transactionDomain.Transaction, error) {
	var list []transactionDomain.Transaction
	for _, t := range m.transactions {
		if t.OwnerID == ownerID {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *mockTransactionStore) BalanceCents(ctx context.Context, ownerID string) (int64, error) {
	var balance int64
	for _, t := range m.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if t.Kind == transactionDomain.KindIncome {
			balance += t.AmountCents
		} else {
			balance -= t.AmountCents
		}
	}
	return balance, nil
}

func (m *mockTransactionStore) Save(ctx context.Context, t transactionDomain.Transaction) error {
	m.transactions[t.ID] = t
	return nil
}

func (m *mockTransactionStore) Delete(ctx context.Context, id string) error {
	delete(m.transactions, id)
	return nil
}

type mockGoalStore struct {
	goals map[string]goalDomain.Goal
}

func (m *mockGoalStore) GetByID(ctx context.Context, id string) (goalDomain.Goal, error) {
	if g, ok := m.goals[id]; ok {
		return g, nil
	}
	return goalDomain.Goal{}, sql.ErrNoRows
}

func (m *mockGoalStore) ListByOwnerID(ctx context.Context, ownerID string) ([]goalDomain.Goal, error) {
	var list []goalDomain.Goal
	for _, g := range m.goals {
		if g.OwnerID == ownerID {
			list = append(list, g)
		}
	}
	return list, nil
}

func (m *mockGoalStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]goalDomain.Goal, error) {
	var list []goalDomain.Goal
	for _, g := range m.goals {
		if g.OwnerID == ownerID && g.Status == status {
			list = append(list, g)
		}
	}
	return list, nil
}

func (m *mockGoalStore) Save(ctx context.Context, g goalDomain.Goal) error {
	m.goals[g.ID] = g
	return nil
}

func (m *mockGoalStore) Delete(ctx context.Context, id string) error {
	delete(m.goals, id)
	return nil
}

type mockNoteStore struct {
	notes map[string]noteDomain.Note
}

func (m *mockNoteStore) GetByID(ctx context.Context, id string) (noteDomain.Note, error) {
	if n, ok := m.notes[id]; ok {
		return n, nil
	}
	return noteDomain.Note{}, sql.ErrNoRows
}

func (m *mockNoteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]noteDomain.Note, error) {
	var list []noteDomain.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			list = append(list, n)
		}
	}
	return list, nil
}

func (m *mockNoteStore) Save(ctx context.Context, n noteDomain.Note) error {
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteStore) Delete(ctx context.Context, id string) error {
	delete(m.notes, id)
	return nil
}

type mockVIPGuestStore struct {
	guests map[string]vipGuestDomain.Guest
}

func (m *mockVIPGuestStore) GetByID(ctx context.Context, id string) (vipGuestDomain.Guest, error) {
	if g, ok := m.guests[id]; ok {
		return g, nil
	}
	return vipGuestDomain.Guest{}, sql.ErrNoRows
}

func (m *mockVIPGuestStore) ListByOwnerID(ctx context.Context, ownerID string) ([]vipGuestDomain.Guest, error) {
	var list []vipGuestDomain.Guest
	for _, g := range m.guests {
		if g.OwnerID == ownerID {
			list = append(list, g)
		}
	}
	return list, nil
}

func (m *mockVIPGuestStore) ListByEventID(ctx context.Context, eventID string) ([]vipGuestDomain.Guest, error) {
	var list []vipGuestDomain.Guest
	for _, g := range m.guests {
		if g.EventID == eventID {
			list = append(list, g)
		}
	}
	return list, nil
}

func (m *mockVIPGuestStore) Save(ctx context.Context, g vipGuestDomain.Guest) error {
	m.guests[g.ID] = g
	return nil
}

func (m *mockVIPGuestStore) Delete(ctx context.Context, id string) error {
	delete(m.guests, id)
	return nil
}

type mockMeetingStore struct {
	meetings map[string]meetingDomain.Meeting
}

func (m *mockMeetingStore) GetByID(ctx context.Context, id string) (meetingDomain.Meeting, error) {
	if v, ok := m.meetings[id]; ok {
		return v, nil
	}
	return meetingDomain.Meeting{}, sql.ErrNoRows
}

func (m *mockMeetingStore) ListByOwnerID(ctx context.Context, ownerID string) ([]meetingDomain.Meeting, error) {
	var list []meetingDomain.Meeting
	for _, v := range m.meetings {
		if v.OwnerID == ownerID {
			list = append(list, v)
		}
	}
	return list, nil
}

func (m *mockMeetingStore) Save(ctx context.Context, v meetingDomain.Meeting) error {
	m.meetings[v.ID] = v
	return nil
}

func (m *mockMeetingStore) Delete(ctx context.Context, id string) error {
	delete(m.meetings, id)
	return nil
}

type mockInviteStore struct {
	invites map[string]inviteDomain.Invite
}

func (m *mockInviteStore) GetByID(ctx context.Context, id string) (inviteDomain.Invite, error) {
	if i, ok := m.invites[id]; ok {
		return i, nil
	}
	return inviteDomain.Invite{}, sql.ErrNoRows
}

func (m *mockInviteStore) GetByToken(ctx context.Context, token string) (inviteDomain.Invite, error) {
	for _, i := range m.invites {
		if i.Token == token {
			return i, nil
		}
	}
	return inviteDomain.Invite{}, sql.ErrNoRows
}

func (m *mockInviteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]inviteDomain.Invite, error) {
	var list []inviteDomain.Invite
	for _, i := range m.invites {
		if i.OwnerID == ownerID {
			list = append(list, i)
		}
	}
	return list, nil
}

func (m *mockInviteStore) GetPendingByEmail(ctx context.Context, ownerID, email string) (inviteDomain.Invite, error) {
	for _, i := range m.invites {
		if i.OwnerID == ownerID && i.Email == email && i.Status == inviteDomain.StatusPending {
			return i, nil
		}
	}
	return inviteDomain.Invite{}, sql.ErrNoRows
}

func (m *mockInviteStore) Save(ctx context.Context, i inviteDomain.Invite) error {
	m.invites[i.ID] = i
	return nil
}

func (m *mockInviteStore) Delete(ctx context.Context, id string) error {
	delete(m.invites, id)
	return nil
}

type mockWaitingStore struct {
	entries map[string]inviteDomain.WaitingEntry
}

func (m *mockWaitingStore) GetByID(ctx context.Context, id string) (inviteDomain.WaitingEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return inviteDomain.WaitingEntry{}, sql.ErrNoRows
}

func (m *mockWaitingStore) ListByOwnerID(ctx context.Context, ownerID string) ([]inviteDomain.WaitingEntry, error) {
	var list []inviteDomain.WaitingEntry
	for _, e := range m.entries {
		if e.OwnerID == ownerID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockWaitingStore) Save(ctx context.Context, e inviteDomain.WaitingEntry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockWaitingStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type mockActivityStore struct {
	entries []activityDomain.Entry
}

func (m *mockActivityStore) Save(ctx context.Context, e activityDomain.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockActivityStore) List(ctx context.Context, ownerID string, filter activityStore.Filter, limit int) ([]activityDomain.Entry, error) {
	var list []activityDomain.Entry
	for _, e := range m.entries {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		list = append(list, e)
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

func (m *mockActivityStore) GetByID(ctx context.Context, id string) (activityDomain.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return activityDomain.Entry{}, sql.ErrNoRows
}

type mockSnapshotStore struct {
	snapshots map[string]snapshotDomain.Snapshot
}

func (m *mockSnapshotStore) GetByID(ctx context.Context, id string) (snapshotDomain.Snapshot, error) {
	if s, ok := m.snapshots[id]; ok {
		return s, nil
	}
	return snapshotDomain.Snapshot{}, sql.ErrNoRows
}

func (m *mockSnapshotStore) ListByRecord(ctx context.Context, ownerID string, table snapshotDomain.Table, recordID string) ([]snapshotDomain.Snapshot, error) {
	var list []snapshotDomain.Snapshot
	for _, s := range m.snapshots {
		if s.OwnerID == ownerID && s.Table == table && s.RecordID == recordID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockSnapshotStore) ListByOwnerID(ctx context.Context, ownerID string, limit int) ([]snapshotDomain.Snapshot, error) {
	var list []snapshotDomain.Snapshot
	for _, s := range m.snapshots {
		if s.OwnerID == ownerID {
			list = append(list, s)
		}
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

func (m *mockSnapshotStore) Save(ctx context.Context, s snapshotDomain.Snapshot) error {
	m.snapshots[s.ID] = s
	return nil
}

func (m *mockSnapshotStore) Delete(ctx context.Context, id string) error {
	delete(m.snapshots, id)
	return nil
}

type mockDocumentStore struct {
	documents map[string]documentDomain.Document
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id string) (documentDomain.Document, error) {
	if d, ok := m.documents[id]; ok {
		return d, nil
	}
	return documentDomain.Document{}, sql.ErrNoRows
}

func (m *mockDocumentStore) ListByOwnerID(ctx context.Context, ownerID string) ([]documentDomain.Document, error) {
	var list []documentDomain.Document
	for _, d := range m.documents {
		if d.OwnerID == ownerID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (m *mockDocumentStore) ListByOwnerIDAndKind(ctx context.Context, ownerID, kind string) ([]documentDomain.Document, error) {
	var list []documentDomain.Document
	for _, d := range m.documents {
		if d.OwnerID == ownerID && d.Kind == kind {
			list = append(list, d)
		}
	}
	return list, nil
}

func (m *mockDocumentStore) Save(ctx context.Context, d documentDomain.Document) error {
	m.documents[d.ID] = d
	return nil
}

func (m *mockDocumentStore) Delete(ctx context.Context, id string) error {
	delete(m.documents, id)
	return nil
}

type mockFeatureFlagStore struct {
	flags map[string]featureFlagDomain.FeatureFlag
}

func (m *mockFeatureFlagStore) GetByKey(ctx context.Context, key string) (featureFlagDomain.FeatureFlag, error) {
	if f, ok := m.flags[key]; ok {
		return f, nil
	}
	return featureFlagDomain.FeatureFlag{}, sql.ErrNoRows
}

func (m *mockFeatureFlagStore) List(ctx context.Context) ([]featureFlagDomain.FeatureFlag, error) {
	var list []featureFlagDomain.FeatureFlag
	for _, f := range m.flags {
		list = append(list, f)
	}
	return list, nil
}

func (m *mockFeatureFlagStore) Save(ctx context.Context, f featureFlagDomain.FeatureFlag) error {
	m.flags[f.Key] = f
	return nil
}

type mockOutboxStore struct {
	entries map[string]outboxDomain.Entry
}

func (m *mockOutboxStore) GetByID(ctx context.Context, id string) (outboxDomain.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return outboxDomain.Entry{}, sql.ErrNoRows
}

func (m *mockOutboxStore) Save(ctx context.Context, e outboxDomain.Entry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	var list []outboxDomain.Entry
	for _, e := range m.entries {
		if e.Status == outboxDomain.StatusPending || e.Status == outboxDomain.StatusRetrying {
			list = append(list, e)
		}
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

func (m *mockOutboxStore) ListFailed(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	var list []outboxDomain.Entry
	for _, e := range m.entries {
		if e.Status == outboxDomain.StatusFailed {
			list = append(list, e)
		}
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

func (m *mockOutboxStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// --- Test helpers ---

// newFullStores returns a Stores with all mock stores initialized and wires
// the package globals the handlers read.
func newFullStores() *Stores {
	s := &Stores{
		AccountStore:       &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		ProfileStore:       &mockProfileStore{profiles: make(map[string]profileDomain.Profile)},
		MemberStore:        &mockMemberStore{members: make(map[string]memberDomain.Member)},
		PermissionStore:    &mockPermissionStore{perms: make(map[string]permissionDomain.SectionPermission)},
		RequestStore:       &mockRequestStore{requests: make(map[string]requestDomain.SectionRequest)},
		EventStore:         &mockEventStore{events: make(map[string]eventDomain.Event)},
		DistrictEventStore: &mockDistrictEventStore{events: make(map[string]eventDomain.DistrictEvent)},
		CommissionStore:    &mockCommissionStore{commissions: make(map[string]commissionDomain.Commission)},
		ProjectStore:       &mockProjectStore{projects: make(map[string]projectDomain.Project)},
		TransactionStore:   &mockTransactionStore{transactions: make(map[string]transactionDomain.Transaction)},
		GoalStore:          &mockGoalStore{goals: make(map[string]goalDomain.Goal)},
		NoteStore:          &mockNoteStore{notes: make(map[string]noteDomain.Note)},
		VIPGuestStore:      &mockVIPGuestStore{guests: make(map[string]vipGuestDomain.Guest)},
		MeetingStore:       &mockMeetingStore{meetings: make(map[string]meetingDomain.Meeting)},
		InviteStore:        &mockInviteStore{invites: make(map[string]inviteDomain.Invite)},
		WaitingStore:       &mockWaitingStore{entries: make(map[string]inviteDomain.WaitingEntry)},
		ActivityStore:      &mockActivityStore{},
		SnapshotStore:      &mockSnapshotStore{snapshots: make(map[string]snapshotDomain.Snapshot)},
		DocumentStore:      &mockDocumentStore{documents: make(map[string]documentDomain.Document)},
		FeatureFlagStore:   &mockFeatureFlagStore{flags: make(map[string]featureFlagDomain.FeatureFlag)},
		OutboxStore:        &mockOutboxStore{entries: make(map[string]outboxDomain.Entry)},
	}
	stores = s
	sessions = middleware.NewSessionStore()
	resolver = &authz.Resolver{
		Accounts:    s.AccountStore,
		Members:     s.MemberStore,
		Permissions: s.PermissionStore,
	}
	emailSender = email.NewNoopSender()
	perfCollector = perf.NewCollector(perf.DefaultRingSize)
	return s
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

var adminSession = middleware.Session{
	AccountID: "admin-001",
	Email:     "presidente@club.test",
	Name:      "Presidente",
	Role:      "admin",
	CreatedAt: time.Now(),
}

var memberSession = middleware.Session{
	AccountID: "member-001",
	Email:     "socio@club.test",
	Name:      "Socio",
	Role:      "member",
	CreatedAt: time.Now(),
}

// seedMembership attaches the member session's account to the admin's club.
func seedMembership(s *Stores) {
	s.MemberStore.Save(context.Background(), memberDomain.Member{
		ID:        "m-001",
		OwnerID:   adminSession.AccountID,
		AccountID: memberSession.AccountID,
		Name:      "Socio",
		Email:     "socio@club.test",
		Status:    memberDomain.StatusActive,
		JoinedAt:  time.Now(),
		CreatedAt: time.Now(),
	})
}

// seedGrant gives the member session access to a section.
func seedGrant(s *Stores, section permissionDomain.Section) {
	s.PermissionStore.Save(context.Background(), permissionDomain.SectionPermission{
		ID:        "perm-" + string(section),
		OwnerID:   adminSession.AccountID,
		UserID:    memberSession.AccountID,
		Section:   section,
		CreatedAt: time.Now(),
	})
}

// --- Tests: authentication ---

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	newFullStores()
	body := `{"email":"nobody@club.test","password":"wrong password 123"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleLogin_Valid(t *testing.T) {
	s := newFullStores()
	acct := accountDomain.Account{
		ID:        "admin-001",
		Email:     "presidente@club.test",
		Role:      accountDomain.RoleAdmin,
		Status:    accountDomain.StatusActive,
		Name:      "Presidente",
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword("una password lunga"); err != nil {
		t.Fatal(err)
	}
	s.AccountStore.Save(context.Background(), acct)

	body := `{"email":"presidente@club.test","password":"una password lunga"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestHandleSession_Unauthenticated(t *testing.T) {
	newFullStores()
	req := httptest.NewRequest("GET", "/api/session", nil)
	rec := httptest.NewRecorder()
	handleSession(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleSession_AdminSeesAllSections(t *testing.T) {
	newFullStores()
	req := authRequest("GET", "/api/session", "", adminSession)
	rec := httptest.NewRecorder()
	handleSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Sections []string `json:"sections"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Sections) != len(permissionDomain.AllSections) {
		t.Errorf("got %d sections, want %d", len(resp.Sections), len(permissionDomain.AllSections))
	}
}

// --- Tests: members ---

func TestHandleMembers_GET_Unauthenticated(t *testing.T) {
	newFullStores()
	req := httptest.NewRequest("GET", "/api/members", nil)
	rec := httptest.NewRecorder()
	handleMembers(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleMembers_POST_Admin(t *testing.T) {
	newFullStores()
	body := `{"name":"Mario Rossi","email":"mario@club.test","office":"segretario"}`
	req := authRequest("POST", "/api/members", body, adminSession)
	rec := httptest.NewRecorder()
	handleMembers(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created memberDomain.Member
	json.NewDecoder(rec.Body).Decode(&created)
	if created.Status != memberDomain.StatusActive {
		t.Errorf("got status %q, want %q", created.Status, memberDomain.StatusActive)
	}
	if created.OwnerID != adminSession.AccountID {
		t.Errorf("got owner %q, want %q", created.OwnerID, adminSession.AccountID)
	}
}

func TestHandleMembers_GET_MemberWithoutGrant(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	req := authRequest("GET", "/api/members", "", memberSession)
	rec := httptest.NewRecorder()
	handleMembers(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleMembers_GET_MemberWithGrant(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	seedGrant(s, permissionDomain.SectionMembership)
	req := authRequest("GET", "/api/members", "", memberSession)
	rec := httptest.NewRecorder()
	handleMembers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var members []memberDomain.Member
	json.NewDecoder(rec.Body).Decode(&members)
	if len(members) != 1 {
		t.Errorf("got %d members, want 1", len(members))
	}
}

func TestHandleMembers_GET_Paginated(t *testing.T) {
	s := newFullStores()
	for i := 0; i < 25; i++ {
		s.MemberStore.Save(context.Background(), memberDomain.Member{
			ID: fmt.Sprintf("m-%02d", i), OwnerID: adminSession.AccountID,
			Name: fmt.Sprintf("Socio %02d", i), Email: fmt.Sprintf("socio%02d@club.test", i),
			Status: memberDomain.StatusActive, JoinedAt: time.Now(), CreatedAt: time.Now(),
		})
	}

	req := authRequest("GET", "/api/members?page=2&per_page=10", "", adminSession)
	rec := httptest.NewRecorder()
	handleMembers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Members []memberDomain.Member `json:"members"`
		Page    listutil.PageInfo     `json:"page"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Members) != 10 {
		t.Errorf("got %d members on page, want 10", len(resp.Members))
	}
	if resp.Page.Total != 25 {
		t.Errorf("got total %d, want 25", resp.Page.Total)
	}
	if resp.Page.TotalPages != 3 {
		t.Errorf("got total_pages %d, want 3", resp.Page.TotalPages)
	}
	if resp.Page.Page != 2 {
		t.Errorf("got page %d, want 2", resp.Page.Page)
	}
}

func TestHandleMemberByID_PUT_TakesSnapshot(t *testing.T) {
	s := newFullStores()
	s.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m-9", OwnerID: adminSession.AccountID, Name: "Prima", Email: "prima@club.test", Status: memberDomain.StatusActive,
		JoinedAt: time.Now(), CreatedAt: time.Now(),
	})

	body := `{"name":"Dopo"}`
	req := authRequest("PUT", "/api/members/m-9", body, adminSession)
	rec := httptest.NewRecorder()
	handleMemberByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m, _ := s.MemberStore.GetByID(context.Background(), "m-9")
	if m.Name != "Dopo" {
		t.Errorf("got name %q, want %q", m.Name, "Dopo")
	}
	snaps, _ := s.SnapshotStore.ListByRecord(context.Background(), adminSession.AccountID, snapshotDomain.TableMembers, "m-9")
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}
	if !strings.Contains(snaps[0].Data, "Prima") {
		t.Errorf("snapshot should hold the pre-update row, got %s", snaps[0].Data)
	}
}

func TestHandleMemberByID_GET_OtherClub(t *testing.T) {
	s := newFullStores()
	s.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m-other", OwnerID: "another-club", Name: "Estraneo", Status: memberDomain.StatusActive,
		JoinedAt: time.Now(), CreatedAt: time.Now(),
	})
	req := authRequest("GET", "/api/members/m-other", "", adminSession)
	rec := httptest.NewRecorder()
	handleMemberByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// --- Tests: permissions ---

func TestHandlePermissions_POST_Grant(t *testing.T) {
	s := newFullStores()
	body := `{"user_id":"member-001","section":"treasury"}`
	req := authRequest("POST", "/api/permissions", body, adminSession)
	rec := httptest.NewRecorder()
	handlePermissions(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	perms, _ := s.PermissionStore.ListByUserID(context.Background(), "member-001")
	if len(perms) != 1 || perms[0].Section != permissionDomain.SectionTreasury {
		t.Errorf("grant not persisted: %+v", perms)
	}
}

func TestHandlePermissions_POST_NonAdmin(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	body := `{"user_id":"member-001","section":"treasury"}`
	req := authRequest("POST", "/api/permissions", body, memberSession)
	rec := httptest.NewRecorder()
	handlePermissions(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandlePermissionActions_DELETE_Revoke(t *testing.T) {
	s := newFullStores()
	seedGrant(s, permissionDomain.SectionTreasury)
	req := authRequest("DELETE", "/api/permissions/perm-treasury", "", adminSession)
	rec := httptest.NewRecorder()
	handlePermissionActions(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusNoContent)
	}
	perms, _ := s.PermissionStore.ListByUserID(context.Background(), memberSession.AccountID)
	if len(perms) != 0 {
		t.Errorf("grant should be gone, got %+v", perms)
	}
}

func TestHandlePermissionActions_POST_Responsible(t *testing.T) {
	s := newFullStores()
	seedGrant(s, permissionDomain.SectionTreasury)
	req := authRequest("POST", "/api/permissions/perm-treasury/responsible", "", adminSession)
	rec := httptest.NewRecorder()
	handlePermissionActions(rec, req)

	if rec.Code != http.StatusNoContent && rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	rows, _ := s.PermissionStore.ListResponsible(context.Background(), adminSession.AccountID, permissionDomain.SectionTreasury)
	if len(rows) != 1 {
		t.Errorf("expected one responsible, got %d", len(rows))
	}
}

// --- Tests: section requests ---

func TestHandleSectionRequests_POST_Submit(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	seedGrant(s, permissionDomain.SectionTreasury)
	body := `{"content":"Serve il rimborso per la cena di gala"}`
	req := authRequest("POST", "/api/sections/treasury/requests", body, memberSession)
	rec := httptest.NewRecorder()
	handleSectionRequests(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	reqs, _ := s.RequestStore.ListTopLevel(context.Background(), adminSession.AccountID, permissionDomain.SectionTreasury, requestDomain.StatusActive)
	if len(reqs) != 1 {
		t.Errorf("got %d requests, want 1", len(reqs))
	}
}

func TestHandleSectionRequests_UnknownSection(t *testing.T) {
	newFullStores()
	req := authRequest("GET", "/api/sections/archery/requests", "", adminSession)
	rec := httptest.NewRecorder()
	handleSectionRequests(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleSectionRequests_FeatureDisabled(t *testing.T) {
	s := newFullStores()
	s.FeatureFlagStore.Save(context.Background(), featureFlagDomain.FeatureFlag{
		Key: "requests", EnabledAdmin: false, EnabledMember: false,
	})
	req := authRequest("GET", "/api/sections/treasury/requests", "", adminSession)
	rec := httptest.NewRecorder()
	handleSectionRequests(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleRequestActions_ReplyRequiresResponsible(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	seedGrant(s, permissionDomain.SectionTreasury)
	s.RequestStore.Save(context.Background(), requestDomain.SectionRequest{
		ID: "req-1", OwnerID: adminSession.AccountID, Section: permissionDomain.SectionTreasury,
		AuthorID: "someone-else", Content: "Richiesta", Status: requestDomain.StatusActive, CreatedAt: time.Now(),
	})

	body := `{"content":"Una risposta non autorizzata"}`
	req := authRequest("POST", "/api/requests/req-1/reply", body, memberSession)
	rec := httptest.NewRecorder()
	handleRequestActions(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestHandleRequestActions_AdminReplyAndArchive(t *testing.T) {
	s := newFullStores()
	s.RequestStore.Save(context.Background(), requestDomain.SectionRequest{
		ID: "req-2", OwnerID: adminSession.AccountID, Section: permissionDomain.SectionTreasury,
		AuthorID: "member-001", Content: "Richiesta", Status: requestDomain.StatusActive, CreatedAt: time.Now(),
	})

	body := `{"content":"Approvato, procedo con il bonifico"}`
	req := authRequest("POST", "/api/requests/req-2/reply", body, adminSession)
	rec := httptest.NewRecorder()
	handleRequestActions(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply: got %d: %s", rec.Code, rec.Body.String())
	}

	req = authRequest("POST", "/api/requests/req-2/archive", "", adminSession)
	rec = httptest.NewRecorder()
	handleRequestActions(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("archive: got %d: %s", rec.Code, rec.Body.String())
	}
	archived, _ := s.RequestStore.GetByID(context.Background(), "req-2")
	if archived.Status != requestDomain.StatusArchived {
		t.Errorf("got status %q, want %q", archived.Status, requestDomain.StatusArchived)
	}
}

// --- Tests: events ---

func TestHandleEvents_POST_DefaultsToPlanned(t *testing.T) {
	newFullStores()
	body := `{"title":"Cerimonia delle ammissioni","type":"ceremony","ceremony_subtype":"admission","starts_at":"2026-10-01T18:00:00Z"}`
	req := authRequest("POST", "/api/events", body, adminSession)
	rec := httptest.NewRecorder()
	handleEvents(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var created eventDomain.Event
	json.NewDecoder(rec.Body).Decode(&created)
	if created.Status != eventDomain.StatusPlanned {
		t.Errorf("got status %q, want %q", created.Status, eventDomain.StatusPlanned)
	}
}

func TestHandleEventBoard_GroupsByStatus(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.EventStore.Save(context.Background(), eventDomain.Event{
		ID: "e1", OwnerID: adminSession.AccountID, Title: "Visita del governatore", Type: "visit",
		StartsAt: now, Status: eventDomain.StatusPlanned, CreatedAt: now,
	})
	s.EventStore.Save(context.Background(), eventDomain.Event{
		ID: "e2", OwnerID: adminSession.AccountID, Title: "Gala", Type: "ceremony",
		StartsAt: now, Status: eventDomain.StatusCancelled, CreatedAt: now,
	})

	req := authRequest("GET", "/api/events/board", "", adminSession)
	rec := httptest.NewRecorder()
	handleEventBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var columns []struct {
		Status string
		Events []eventDomain.Event
	}
	json.NewDecoder(rec.Body).Decode(&columns)
	if len(columns) != len(eventDomain.BoardStatuses) {
		t.Fatalf("got %d columns, want %d", len(columns), len(eventDomain.BoardStatuses))
	}
	for _, col := range columns {
		for _, e := range col.Events {
			if e.Status == eventDomain.StatusCancelled {
				t.Error("cancelled events must not appear on the board")
			}
		}
	}
}

func TestHandleEventByID_Move(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.EventStore.Save(context.Background(), eventDomain.Event{
		ID: "e1", OwnerID: adminSession.AccountID, Title: "Cerimonia", Type: "ceremony",
		StartsAt: now, Status: eventDomain.StatusPlanned, CreatedAt: now,
	})

	body := `{"to_status":"in_progress"}`
	req := authRequest("POST", "/api/events/e1/move", body, adminSession)
	rec := httptest.NewRecorder()
	handleEventByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	moved, _ := s.EventStore.GetByID(context.Background(), "e1")
	if moved.Status != eventDomain.StatusInProgress {
		t.Errorf("got status %q, want %q", moved.Status, eventDomain.StatusInProgress)
	}
}

func TestHandleVIPGuests_FilterByEvent(t *testing.T) {
	s := newFullStores()
	s.VIPGuestStore.Save(context.Background(), vipGuestDomain.Guest{
		ID: "g1", OwnerID: adminSession.AccountID, Name: "Sindaco", EventID: "e1", CreatedAt: time.Now(),
	})
	s.VIPGuestStore.Save(context.Background(), vipGuestDomain.Guest{
		ID: "g2", OwnerID: adminSession.AccountID, Name: "Prefetto", EventID: "e2", CreatedAt: time.Now(),
	})

	req := authRequest("GET", "/api/vip-guests?event_id=e1", "", adminSession)
	rec := httptest.NewRecorder()
	handleVIPGuests(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var guests []vipGuestDomain.Guest
	json.NewDecoder(rec.Body).Decode(&guests)
	if len(guests) != 1 || guests[0].Name != "Sindaco" {
		t.Errorf("got %+v, want only the e1 guest", guests)
	}
}

// --- Tests: treasury ---

func TestHandleTreasuryBalance(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.TransactionStore.Save(context.Background(), transactionDomain.Transaction{
		ID: "t1", OwnerID: adminSession.AccountID, Kind: transactionDomain.KindIncome,
		AmountCents: 50000, Description: "Quote soci", OccurredAt: now, CreatedAt: now,
	})
	s.TransactionStore.Save(context.Background(), transactionDomain.Transaction{
		ID: "t2", OwnerID: adminSession.AccountID, Kind: transactionDomain.KindExpense,
		AmountCents: 12050, Description: "Sala riunioni", OccurredAt: now, CreatedAt: now,
	})

	req := authRequest("GET", "/api/treasury/balance", "", adminSession)
	rec := httptest.NewRecorder()
	handleTreasuryBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		BalanceCents int64 `json:"balance_cents"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.BalanceCents != 37950 {
		t.Errorf("got balance %d, want 37950", resp.BalanceCents)
	}
}

func TestHandleTransactions_POST_MemberWithoutTreasury(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	seedGrant(s, permissionDomain.SectionPrefecture)
	body := `{"kind":"income","amount_cents":1000,"description":"Donazione"}`
	req := authRequest("POST", "/api/transactions", body, memberSession)
	rec := httptest.NewRecorder()
	handleTransactions(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// --- Tests: commissions and projects ---

func TestHandleCommissions_POST_And_ListProjects(t *testing.T) {
	s := newFullStores()
	body := `{"name":"Commissione giovani","chair_name":"Anna Bianchi"}`
	req := authRequest("POST", "/api/commissions", body, adminSession)
	rec := httptest.NewRecorder()
	handleCommissions(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var c commissionDomain.Commission
	json.NewDecoder(rec.Body).Decode(&c)
	if c.Status != commissionDomain.StatusActive {
		t.Errorf("got status %q, want %q", c.Status, commissionDomain.StatusActive)
	}

	s.ProjectStore.Save(context.Background(), projectDomain.Project{
		ID: "p1", OwnerID: adminSession.AccountID, CommissionID: c.ID, Title: "Borsa di studio",
		Status: projectDomain.StatusActive, CreatedAt: time.Now(),
	})
	req = authRequest("GET", "/api/commissions/"+c.ID+"/projects", "", adminSession)
	rec = httptest.NewRecorder()
	handleCommissionByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var projects []projectDomain.Project
	json.NewDecoder(rec.Body).Decode(&projects)
	if len(projects) != 1 {
		t.Errorf("got %d projects, want 1", len(projects))
	}
}

func TestHandleProjects_POST_NegativeBudget(t *testing.T) {
	newFullStores()
	body := `{"title":"Progetto storto","budget_cents":-5}`
	req := authRequest("POST", "/api/projects", body, adminSession)
	rec := httptest.NewRecorder()
	handleProjects(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// --- Tests: goals, notes, meetings ---

func TestHandleGoals_POST_DefaultsOpen(t *testing.T) {
	newFullStores()
	body := `{"title":"20 nuovi soci","target":20}`
	req := authRequest("POST", "/api/goals", body, adminSession)
	rec := httptest.NewRecorder()
	handleGoals(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var g goalDomain.Goal
	json.NewDecoder(rec.Body).Decode(&g)
	if g.Status != goalDomain.StatusOpen {
		t.Errorf("got status %q, want %q", g.Status, goalDomain.StatusOpen)
	}
}

func TestHandleNotes_POST_SetsAuthor(t *testing.T) {
	newFullStores()
	body := `{"title":"Promemoria","content":"Chiamare il prefetto"}`
	req := authRequest("POST", "/api/notes", body, adminSession)
	rec := httptest.NewRecorder()
	handleNotes(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var n noteDomain.Note
	json.NewDecoder(rec.Body).Decode(&n)
	if n.AuthorID != adminSession.AccountID {
		t.Errorf("got author %q, want %q", n.AuthorID, adminSession.AccountID)
	}
}

func TestHandleMeetingByID_PUT_Minutes(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.MeetingStore.Save(context.Background(), meetingDomain.Meeting{
		ID: "mt-1", OwnerID: adminSession.AccountID, Title: "Consiglio direttivo di settembre",
		HeldAt: now, Status: meetingDomain.StatusScheduled, CreatedAt: now,
	})

	body := `{"minutes":"## Verbale\nApprovato il bilancio.","status":"held"}`
	req := authRequest("PUT", "/api/meetings/mt-1", body, adminSession)
	rec := httptest.NewRecorder()
	handleMeetingByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := s.MeetingStore.GetByID(context.Background(), "mt-1")
	if updated.Minutes == "" || updated.Status != meetingDomain.StatusHeld {
		t.Errorf("minutes/status not updated: %+v", updated)
	}
}

// --- Tests: documents ---

func TestHandleGenerateDocument_Noop(t *testing.T) {
	s := newFullStores()
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club Test", CreatedAt: time.Now(),
	})

	body := `{"prompt":"Lettera di benvenuto per i nuovi soci","kind":"letter"}`
	req := authRequest("POST", "/api/documents/generate", body, adminSession)
	rec := httptest.NewRecorder()
	handleGenerateDocument(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	docs, _ := s.DocumentStore.ListByOwnerIDAndKind(context.Background(), adminSession.AccountID, documentDomain.KindDocument)
	if len(docs) != 1 {
		t.Errorf("got %d documents, want 1", len(docs))
	}
}

func TestHandleGenerateDocument_EmptyPrompt(t *testing.T) {
	newFullStores()
	body := `{"prompt":"  ","kind":"letter"}`
	req := authRequest("POST", "/api/documents/generate", body, adminSession)
	rec := httptest.NewRecorder()
	handleGenerateDocument(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGenerateDocument_FeatureDisabledForMembers(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	seedGrant(s, permissionDomain.SectionSecretariat)
	s.FeatureFlagStore.Save(context.Background(), featureFlagDomain.FeatureFlag{
		Key: "ai_tools", EnabledAdmin: true, EnabledMember: false,
	})

	body := `{"prompt":"Una lettera","kind":"letter"}`
	req := authRequest("POST", "/api/documents/generate", body, memberSession)
	rec := httptest.NewRecorder()
	handleGenerateDocument(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDocumentByID_PUT_Edit(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.DocumentStore.Save(context.Background(), documentDomain.Document{
		ID: "d1", OwnerID: adminSession.AccountID, Kind: documentDomain.KindDocument,
		Title: "Bozza", Body: "testo", CreatedAt: now,
	})

	body := `{"title":"Definitivo","body":"testo rivisto"}`
	req := authRequest("PUT", "/api/documents/d1", body, adminSession)
	rec := httptest.NewRecorder()
	handleDocumentByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	d, _ := s.DocumentStore.GetByID(context.Background(), "d1")
	if d.Title != "Definitivo" || d.Body != "testo rivisto" {
		t.Errorf("edit not applied: %+v", d)
	}
}

// --- Tests: invites and waiting list ---

func TestHandleInvites_POST_CreateAndDuplicate(t *testing.T) {
	s := newFullStores()
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club Test", CreatedAt: time.Now(),
	})

	body := `{"email":"nuovo@club.test"}`
	req := authRequest("POST", "/api/invites", body, adminSession)
	rec := httptest.NewRecorder()
	handleInvites(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	pending, _ := s.OutboxStore.ListPending(context.Background(), 10)
	if len(pending) != 1 {
		t.Errorf("expected the invite email in the outbox, got %d entries", len(pending))
	}

	// Same address again while the first is pending.
	req = authRequest("POST", "/api/invites", body, adminSession)
	rec = httptest.NewRecorder()
	handleInvites(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleAcceptInvite_CreatesAccountAndMember(t *testing.T) {
	s := newFullStores()
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club Test", CreatedAt: time.Now(),
	})
	s.InviteStore.Save(context.Background(), inviteDomain.Invite{
		ID: "inv-1", OwnerID: adminSession.AccountID, Email: "nuovo@club.test",
		Token: "tok-123", Status: inviteDomain.StatusPending,
		ExpiresAt: time.Now().Add(24 * time.Hour), CreatedAt: time.Now(),
	})

	body := `{"token":"tok-123","name":"Nuovo Socio","password":"una password lunga"}`
	req := httptest.NewRequest("POST", "/api/invites/accept", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleAcceptInvite(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := s.AccountStore.GetByEmail(context.Background(), "nuovo@club.test"); err != nil {
		t.Error("account was not created")
	}
	members, _ := s.MemberStore.ListByOwnerID(context.Background(), adminSession.AccountID)
	if len(members) != 1 {
		t.Errorf("got %d members, want 1", len(members))
	}
	inv, _ := s.InviteStore.GetByID(context.Background(), "inv-1")
	if inv.Status != inviteDomain.StatusAccepted {
		t.Errorf("got invite status %q, want %q", inv.Status, inviteDomain.StatusAccepted)
	}
}

func TestHandleAcceptInvite_ExpiredToken(t *testing.T) {
	s := newFullStores()
	s.InviteStore.Save(context.Background(), inviteDomain.Invite{
		ID: "inv-2", OwnerID: adminSession.AccountID, Email: "tardi@club.test",
		Token: "tok-old", Status: inviteDomain.StatusPending,
		ExpiresAt: time.Now().Add(-1 * time.Hour), CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	})

	body := `{"token":"tok-old","name":"Tardivo","password":"una password lunga"}`
	req := httptest.NewRequest("POST", "/api/invites/accept", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleAcceptInvite(rec, req)
	if rec.Code != http.StatusGone {
		t.Errorf("got %d, want %d", rec.Code, http.StatusGone)
	}
}

func TestHandleWaitingListActions_Convert(t *testing.T) {
	s := newFullStores()
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club Test", CreatedAt: time.Now(),
	})
	s.WaitingStore.Save(context.Background(), inviteDomain.WaitingEntry{
		ID: "w1", OwnerID: adminSession.AccountID, Name: "Aspirante", Email: "aspirante@club.test", CreatedAt: time.Now(),
	})

	req := authRequest("POST", "/api/waiting-list/w1/convert", "", adminSession)
	rec := httptest.NewRecorder()
	handleWaitingListActions(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := s.WaitingStore.GetByID(context.Background(), "w1"); err == nil {
		t.Error("waiting entry should be deleted after conversion")
	}
	invites, _ := s.InviteStore.ListByOwnerID(context.Background(), adminSession.AccountID)
	if len(invites) != 1 || invites[0].Email != "aspirante@club.test" {
		t.Errorf("invite not created from waiting entry: %+v", invites)
	}
}

// --- Tests: public pages ---

func TestHandlePublicClubPage_RendersProfile(t *testing.T) {
	s := newFullStores()
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club di Prova", City: "Milano",
		Slug: "club-di-prova", Description: "Il **miglior** club.", CreatedAt: time.Now(),
	})

	req := httptest.NewRequest("GET", "/club/club-di-prova", nil)
	rec := httptest.NewRecorder()
	handlePublicClubPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "Club di Prova") {
		t.Error("page should carry the club name")
	}
	if !strings.Contains(html, "<strong>miglior</strong>") {
		t.Error("description markdown should be rendered")
	}
}

func TestHandlePublicClubPage_UnknownSlug(t *testing.T) {
	newFullStores()
	req := httptest.NewRequest("GET", "/club/sconosciuto", nil)
	rec := httptest.NewRecorder()
	handlePublicClubPage(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlePublicClubPage_Join(t *testing.T) {
	s := newFullStores()
	s.AccountStore.Save(context.Background(), accountDomain.Account{
		ID: adminSession.AccountID, Email: adminSession.Email, Role: accountDomain.RoleAdmin,
		Status: accountDomain.StatusActive, Name: "Presidente", CreatedAt: time.Now(),
	})
	s.ProfileStore.Save(context.Background(), profileDomain.Profile{
		AccountID: adminSession.AccountID, ClubName: "Club di Prova",
		Slug: "club-di-prova", CreatedAt: time.Now(),
	})

	form := "name=Aspirante&email=aspirante%40club.test&message=Vorrei+partecipare"
	req := httptest.NewRequest("POST", "/club/club-di-prova/join", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handlePublicClubPage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	entries, _ := s.WaitingStore.ListByOwnerID(context.Background(), adminSession.AccountID)
	if len(entries) != 1 {
		t.Fatalf("got %d waiting entries, want 1", len(entries))
	}
	pending, _ := s.OutboxStore.ListPending(context.Background(), 10)
	if len(pending) != 1 {
		t.Errorf("expected the admin notification in the outbox, got %d", len(pending))
	}
}

func TestHandleInviteLanding_ValidAndExpired(t *testing.T) {
	s := newFullStores()
	s.InviteStore.Save(context.Background(), inviteDomain.Invite{
		ID: "inv-1", OwnerID: adminSession.AccountID, Email: "a@b.test",
		Token: "tok-ok", Status: inviteDomain.StatusPending,
		ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now(),
	})
	s.InviteStore.Save(context.Background(), inviteDomain.Invite{
		ID: "inv-2", OwnerID: adminSession.AccountID, Email: "c@d.test",
		Token: "tok-late", Status: inviteDomain.StatusPending,
		ExpiresAt: time.Now().Add(-time.Hour), CreatedAt: time.Now(),
	})

	req := httptest.NewRequest("GET", "/invite/tok-ok", nil)
	rec := httptest.NewRecorder()
	handleInviteLanding(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Benvenuto") {
		t.Errorf("valid token: got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/invite/tok-late", nil)
	rec = httptest.NewRecorder()
	handleInviteLanding(rec, req)
	if !strings.Contains(rec.Body.String(), "scaduto") {
		t.Error("expired token should render the expiry message")
	}
}

// --- Tests: admin surfaces ---

func TestHandleAdminActivity_FilterByCategory(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.ActivityStore.Save(context.Background(), activityDomain.NewEntry(
		"a1", adminSession.AccountID, adminSession.AccountID, adminSession.Email,
		activityDomain.CategoryTreasury, activityDomain.ActionCreate, now))
	s.ActivityStore.Save(context.Background(), activityDomain.NewEntry(
		"a2", adminSession.AccountID, adminSession.AccountID, adminSession.Email,
		activityDomain.CategoryMembers, activityDomain.ActionDelete, now))

	req := authRequest("GET", "/api/admin/activity?category=treasury", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminActivity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var entries []activityDomain.Entry
	json.NewDecoder(rec.Body).Decode(&entries)
	if len(entries) != 1 || entries[0].Category != activityDomain.CategoryTreasury {
		t.Errorf("filter not applied: %+v", entries)
	}
}

func TestHandleAdminActivity_NonAdmin(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	req := authRequest("GET", "/api/admin/activity", "", memberSession)
	rec := httptest.NewRecorder()
	handleAdminActivity(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleAdminAccounts_RoleFilterAndPaging(t *testing.T) {
	s := newFullStores()
	for i := 0; i < 3; i++ {
		s.AccountStore.Save(context.Background(), accountDomain.Account{
			ID: fmt.Sprintf("acc-%d", i), Email: fmt.Sprintf("socio%d@club.test", i),
			Role: accountDomain.RoleMember, Status: accountDomain.StatusActive, CreatedAt: time.Now(),
		})
	}
	s.AccountStore.Save(context.Background(), accountDomain.Account{
		ID: "acc-admin", Email: "presidente@club.test",
		Role: accountDomain.RoleAdmin, Status: accountDomain.StatusActive, CreatedAt: time.Now(),
	})

	req := authRequest("GET", "/api/admin/accounts?role=member", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminAccounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Accounts []accountRow      `json:"accounts"`
		Page     listutil.PageInfo `json:"page"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Accounts) != 3 {
		t.Errorf("got %d accounts, want 3", len(resp.Accounts))
	}
	for _, a := range resp.Accounts {
		if a.Role != accountDomain.RoleMember {
			t.Errorf("role filter not applied: %+v", a)
		}
	}
	if resp.Page.Total != 4 {
		t.Errorf("got total %d, want 4", resp.Page.Total)
	}
}

func TestHandleAdminAccounts_NonAdmin(t *testing.T) {
	s := newFullStores()
	seedMembership(s)
	req := authRequest("GET", "/api/admin/accounts", "", memberSession)
	rec := httptest.NewRecorder()
	handleAdminAccounts(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleAdminSnapshotActions_Restore(t *testing.T) {
	s := newFullStores()
	now := time.Now()
	s.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m-1", OwnerID: adminSession.AccountID, Name: "Dopo", Email: "socio@club.test", Status: memberDomain.StatusActive,
		JoinedAt: now, CreatedAt: now,
	})
	original, _ := json.Marshal(memberDomain.Member{
		ID: "m-1", OwnerID: adminSession.AccountID, Name: "Prima", Email: "socio@club.test", Status: memberDomain.StatusActive,
		JoinedAt: now, CreatedAt: now,
	})
	s.SnapshotStore.Save(context.Background(), snapshotDomain.Snapshot{
		ID: "snap-1", OwnerID: adminSession.AccountID, Table: snapshotDomain.TableMembers,
		RecordID: "m-1", Data: string(original), TakenBy: adminSession.AccountID, CreatedAt: now,
	})

	req := authRequest("POST", "/api/admin/snapshots/snap-1/restore", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminSnapshotActions(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	m, _ := s.MemberStore.GetByID(context.Background(), "m-1")
	if m.Name != "Prima" {
		t.Errorf("got name %q, want the restored %q", m.Name, "Prima")
	}
}

func TestHandleAdminFlags_UpdateExisting(t *testing.T) {
	s := newFullStores()
	s.FeatureFlagStore.Save(context.Background(), featureFlagDomain.FeatureFlag{
		Key: "ai_tools", Description: "AI tools", EnabledAdmin: true, EnabledMember: false,
	})

	body := `{"key":"ai_tools","enabled_admin":true,"enabled_member":true}`
	req := authRequest("POST", "/api/admin/flags", body, adminSession)
	rec := httptest.NewRecorder()
	handleAdminFlags(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	f, _ := s.FeatureFlagStore.GetByKey(context.Background(), "ai_tools")
	if !f.EnabledMember {
		t.Error("member toggle not persisted")
	}
}

func TestHandleAdminFlags_UnknownKey(t *testing.T) {
	newFullStores()
	body := `{"key":"teleport","enabled_admin":true,"enabled_member":true}`
	req := authRequest("POST", "/api/admin/flags", body, adminSession)
	rec := httptest.NewRecorder()
	handleAdminFlags(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleAdminOutbox_RetryDelivers(t *testing.T) {
	s := newFullStores()
	payload, _ := json.Marshal(map[string]any{
		"to": []string{"socio@club.test"}, "subject": "Prova", "html": "<p>ciao</p>",
	})
	s.OutboxStore.Save(context.Background(), outboxDomain.Entry{
		ID: "ob-1", ActionType: outboxDomain.ActionTypeEmail, Payload: string(payload),
		Status: outboxDomain.StatusPending, MaxAttempts: 5, CreatedAt: time.Now(),
	})

	req := authRequest("POST", "/api/admin/outbox/ob-1/retry", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminOutbox(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	e, _ := s.OutboxStore.GetByID(context.Background(), "ob-1")
	if e.Status != outboxDomain.StatusDone {
		t.Errorf("got status %q, want %q", e.Status, outboxDomain.StatusDone)
	}
}

func TestHandleAdminPerf(t *testing.T) {
	newFullStores()
	perfCollector.Record(perf.Entry{
		Kind: perf.KindRequest, Path: "GET /api/members", StatusCode: 200,
		DurationMs: 12, Timestamp: time.Now(),
	})
	perfCollector.Record(perf.Entry{
		Kind: perf.KindQuery, Path: "SELECT members",
		DurationMs: 3, Timestamp: time.Now(),
	})

	req := authRequest("GET", "/api/admin/perf?minutes=5&top=3", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminPerf(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var snap perf.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalRequests != 1 || snap.TotalQueries != 1 {
		t.Errorf("counters: %d requests, %d queries", snap.TotalRequests, snap.TotalQueries)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Path != "SELECT members" {
		t.Errorf("unexpected slowest queries: %+v", snap.SlowestQueries)
	}
}

func TestHandleAdminPerf_NonAdmin(t *testing.T) {
	newFullStores()
	req := authRequest("GET", "/api/admin/perf", "", memberSession)
	rec := httptest.NewRecorder()
	handleAdminPerf(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
