package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/observability"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

type KYCHandler struct {
	svc *service.KYCService
}

func NewKYCHandler(svc *service.KYCService) *KYCHandler {
	return &KYCHandler{svc: svc}
}

// Upload accepts a multipart identity document. The form carries a
// "document_type" field and a "file" part; oversize and unsupported
// uploads are rejected before anything is stored.
func (h *KYCHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	// 1 MiB of headroom over the document cap for multipart framing; the
	// per-file limit itself is enforced on the part size.
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxDocumentBytes+1<<20)
	if err := r.ParseMultipartForm(domain.MaxDocumentBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			observability.IncrementDocumentUpload("too_large")
			RespondServiceError(w, r, service.ErrDocumentTooLarge)
			return
		}
		RespondError(w, r, http.StatusBadRequest, "request/invalid-multipart", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "kyc/missing-file", "a file part named \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	doc, err := h.svc.Submit(r.Context(), session, service.SubmitDocumentCmd{
		Type:        r.FormValue("document_type"),
		FileName:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
		Body:        file,
	})
	if err != nil {
		observability.IncrementDocumentUpload("rejected")
		RespondServiceError(w, r, err)
		return
	}
	observability.IncrementDocumentUpload("accepted")
	RespondJSON(w, http.StatusCreated, doc)
}

func (h *KYCHandler) List(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	items, err := h.svc.ListForUser(r.Context(), session)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// DownloadFile streams the stored blob back to its owner or an admin.
func (h *KYCHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid document id")
		return
	}

	doc, rc, err := h.svc.OpenFile(r.Context(), session, id)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
