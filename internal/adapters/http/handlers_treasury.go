package web

import (
	"net/http"
	"time"

	activityDomain "clubhouse/internal/domain/activity"
	permissionDomain "clubhouse/internal/domain/permission"
	snapshotDomain "clubhouse/internal/domain/snapshot"
	transactionDomain "clubhouse/internal/domain/transaction"
)

// handleTransactions handles GET (list) and POST (create) for
// /api/transactions. Treasury section.
func handleTransactions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionTreasury)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		txs, err := stores.TransactionStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if txs == nil {
			txs = []transactionDomain.Transaction{}
		}
		writeJSON(w, http.StatusOK, txs)

	case "POST":
		var req struct {
			Kind        string    `json:"kind"`
			AmountCents int64     `json:"amount_cents"`
			Description string    `json:"description"`
			Category    string    `json:"category"`
			OccurredAt  time.Time `json:"occurred_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.OccurredAt.IsZero() {
			req.OccurredAt = timeNow()
		}

		t := transactionDomain.Transaction{
			ID:          generateID(),
			OwnerID:     ownerID,
			Kind:        req.Kind,
			AmountCents: req.AmountCents,
			Description: req.Description,
			Category:    req.Category,
			OccurredAt:  req.OccurredAt,
			CreatedAt:   timeNow(),
		}
		if err := t.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.TransactionStore.Save(ctx, t); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryTreasury, activityDomain.ActionCreate, "transaction", t.ID, t.Description)
		writeJSON(w, http.StatusCreated, t)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTransactionByID handles GET, PUT, DELETE for /api/transactions/{id}.
func handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionTreasury)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/transactions/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	t, err := stores.TransactionStore.GetByID(ctx, parts[0])
	if err != nil || t.OwnerID != ownerID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, t)

	case "PUT":
		var req struct {
			Kind        *string    `json:"kind"`
			AmountCents *int64     `json:"amount_cents"`
			Description *string    `json:"description"`
			Category    *string    `json:"category"`
			OccurredAt  *time.Time `json:"occurred_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableTransactions, t.ID, t)

		if req.Kind != nil {
			t.Kind = *req.Kind
		}
		if req.AmountCents != nil {
			t.AmountCents = *req.AmountCents
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Category != nil {
			t.Category = *req.Category
		}
		if req.OccurredAt != nil {
			t.OccurredAt = *req.OccurredAt
		}
		if err := t.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.TransactionStore.Save(ctx, t); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryTreasury, activityDomain.ActionUpdate, "transaction", t.ID, t.Description)
		writeJSON(w, http.StatusOK, t)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableTransactions, t.ID, t)
		if err := stores.TransactionStore.Delete(ctx, t.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryTreasury, activityDomain.ActionDelete, "transaction", t.ID, t.Description)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTreasuryBalance handles GET /api/treasury/balance: income minus
// expenses in cents, computed in SQL.
func handleTreasuryBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionTreasury)
	if !ok {
		return
	}

	balance, err := stores.TransactionStore.BalanceCents(r.Context(), ownerID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance_cents": balance})
}
