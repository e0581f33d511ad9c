package web

import (
	"errors"
	"io"
	"net/http"

	activityDomain "clubhouse/internal/domain/activity"
	documentDomain "clubhouse/internal/domain/document"
	permissionDomain "clubhouse/internal/domain/permission"

	"clubhouse/internal/adapters/ai"
	"clubhouse/internal/application/orchestrators"
)

// maxAudioUpload caps transcription uploads at 25 MB, matching the
// provider's own limit.
const maxAudioUpload = 25 << 20

// handleDocuments handles GET /api/documents, optionally filtered by kind.
func handleDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	var docs []documentDomain.Document
	var err error
	if kind := r.URL.Query().Get("kind"); kind != "" {
		docs, err = stores.DocumentStore.ListByOwnerIDAndKind(ctx, ownerID, kind)
	} else {
		docs, err = stores.DocumentStore.ListByOwnerID(ctx, ownerID)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if docs == nil {
		docs = []documentDomain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleGenerateDocument handles POST /api/documents/generate.
func handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "ai_tools") {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
		Kind   string `json:"kind"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	clubName := ownProfile(r, ownerID)
	d, err := orchestrators.ExecuteGenerateDocument(r.Context(), orchestrators.GenerateDocumentInput{
		OwnerID:   ownerID,
		ClubName:  clubName,
		Prompt:    req.Prompt,
		Kind:      req.Kind,
		CreatedBy: sess.AccountID,
	}, orchestrators.GenerateDocumentDeps{
		DocumentStore: stores.DocumentStore,
		Generator:     docGenerator,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmptyPrompt) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionCreate, "document", d.ID, d.Title)
	writeJSON(w, http.StatusCreated, d)
}

// handleGenerateFlyer handles POST /api/documents/flyer.
func handleGenerateFlyer(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "ai_tools") {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Title  string `json:"title"`
		Prompt string `json:"prompt"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	clubName := ownProfile(r, ownerID)
	d, err := orchestrators.ExecuteGenerateFlyer(r.Context(), orchestrators.GenerateFlyerInput{
		OwnerID:   ownerID,
		ClubName:  clubName,
		Title:     req.Title,
		Prompt:    req.Prompt,
		CreatedBy: sess.AccountID,
	}, orchestrators.GenerateFlyerDeps{
		DocumentStore: stores.DocumentStore,
		Generator:     docGenerator,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmptyPrompt) || errors.Is(err, documentDomain.ErrEmptyTitle) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionCreate, "flyer", d.ID, d.Title)
	writeJSON(w, http.StatusCreated, d)
}

// handleDocumentByID handles GET, PUT, DELETE for /api/documents/{id}.
func handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/documents/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	d, err := stores.DocumentStore.GetByID(ctx, parts[0])
	if err != nil || d.OwnerID != ownerID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, d)

	case "PUT":
		var req struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		updated, err := orchestrators.ExecuteEditDocument(ctx, orchestrators.EditDocumentInput{
			OwnerID:    ownerID,
			DocumentID: d.ID,
			Title:      req.Title,
			Body:       req.Body,
		}, orchestrators.EditDocumentDeps{
			DocumentStore: stores.DocumentStore,
			Now:           timeNow,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionUpdate, "document", updated.ID, updated.Title)
		writeJSON(w, http.StatusOK, updated)

	case "DELETE":
		if err := stores.DocumentStore.Delete(ctx, d.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionDelete, "document", d.ID, d.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTranscribe handles POST /api/transcribe. Accepts a multipart form
// with an "audio" file part and returns the transcribed text without
// persisting anything.
func handleTranscribe(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "ai_tools") {
		return
	}
	_, ok = requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "audio file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read audio file", http.StatusBadRequest)
		return
	}

	res, err := docGenerator.Transcribe(r.Context(), ai.TranscribeRequest{
		Filename: header.Filename,
		Audio:    audio,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": res.Text})
}
