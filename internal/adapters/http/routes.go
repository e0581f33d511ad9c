package web

import "net/http"

// registerRoutes attaches every handler to the mux. Handlers dispatch on
// method and trailing path segments themselves; flat registrations, no
// routing framework.
func registerRoutes(mux *http.ServeMux) {
	// auth + account
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/register", handleRegisterClub)
	mux.HandleFunc("/api/change-password", handleChangePassword)
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/profile", handleClubProfile)

	// members
	mux.HandleFunc("/api/members", handleMembers)
	mux.HandleFunc("/api/members/", handleMemberByID)

	// section permissions (admin)
	mux.HandleFunc("/api/permissions", handlePermissions)
	mux.HandleFunc("/api/permissions/", handlePermissionActions)

	// section request boards
	mux.HandleFunc("/api/sections/", handleSectionRequests)
	mux.HandleFunc("/api/requests/", handleRequestActions)

	// prefecture: events, board, district events, VIP guests
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/board", handleEventBoard)
	mux.HandleFunc("/api/events/", handleEventByID)
	mux.HandleFunc("/api/district-events", handleDistrictEvents)
	mux.HandleFunc("/api/district-events/", handleDistrictEventByID)
	mux.HandleFunc("/api/vip-guests", handleVIPGuests)
	mux.HandleFunc("/api/vip-guests/", handleVIPGuestByID)

	// treasury
	mux.HandleFunc("/api/transactions", handleTransactions)
	mux.HandleFunc("/api/transactions/", handleTransactionByID)
	mux.HandleFunc("/api/treasury/balance", handleTreasuryBalance)

	// presidency: goals, notes, board meetings
	mux.HandleFunc("/api/goals", handleGoals)
	mux.HandleFunc("/api/goals/", handleGoalByID)
	mux.HandleFunc("/api/notes", handleNotes)
	mux.HandleFunc("/api/notes/", handleNoteByID)
	mux.HandleFunc("/api/meetings", handleMeetings)
	mux.HandleFunc("/api/meetings/", handleMeetingByID)

	// commissions and projects
	mux.HandleFunc("/api/commissions", handleCommissions)
	mux.HandleFunc("/api/commissions/", handleCommissionByID)
	mux.HandleFunc("/api/projects", handleProjects)
	mux.HandleFunc("/api/projects/", handleProjectByID)

	// AI documents and flyers
	mux.HandleFunc("/api/documents", handleDocuments)
	mux.HandleFunc("/api/documents/generate", handleGenerateDocument)
	mux.HandleFunc("/api/documents/flyer", handleGenerateFlyer)
	mux.HandleFunc("/api/documents/", handleDocumentByID)
	mux.HandleFunc("/api/transcribe", handleTranscribe)

	// invites and waiting list
	mux.HandleFunc("/api/invites", handleInvites)
	mux.HandleFunc("/api/invites/accept", handleAcceptInvite)
	mux.HandleFunc("/api/invites/", handleInviteActions)
	mux.HandleFunc("/api/waiting-list", handleWaitingList)
	mux.HandleFunc("/api/waiting-list/", handleWaitingListActions)

	// public surface: club page, join form, invite landing
	mux.HandleFunc("/club/", handlePublicClubPage)
	mux.HandleFunc("/invite/", handleInviteLanding)

	// admin tools
	mux.HandleFunc("/api/admin/accounts", handleAdminAccounts)
	mux.HandleFunc("/api/admin/activity", handleAdminActivity)
	mux.HandleFunc("/api/admin/snapshots", handleAdminSnapshots)
	mux.HandleFunc("/api/admin/snapshots/", handleAdminSnapshotActions)
	mux.HandleFunc("/api/admin/flags", handleAdminFlags)
	mux.HandleFunc("/api/admin/perf", handleAdminPerf)
	mux.HandleFunc("/api/admin/outbox", handleAdminOutbox)
	mux.HandleFunc("/api/admin/outbox/", handleAdminOutbox)
}
