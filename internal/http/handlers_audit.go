package httpx

import (
	"net/http"

	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/service"
)

// AuditHandlers provides read-only HTTP handlers for the audit trail.
type AuditHandlers struct {
	Svc *service.AuditService
}

type auditListResponse struct {
	Entries    []*model.AuditEntry `json:"entries"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// List handles GET /api/audit.
// Supported filters: entity_type, actor_id, action, since, until (RFC 3339),
// and metadata_query (a JMESPath expression applied to entry metadata);
// paging: limit, cursor.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.AuditListOptions{
		Limit:         queryInt(r, "limit"),
		Cursor:        r.URL.Query().Get("cursor"),
		ActorID:       queryString(r, "actor_id"),
		Action:        queryString(r, "action"),
		Since:         queryTime(r, "since"),
		Until:         queryTime(r, "until"),
		MetadataQuery: r.URL.Query().Get("metadata_query"),
	}
	if s := queryString(r, "entity_type"); s != nil {
		entity := model.AuditEntityType(*s)
		opts.EntityType = &entity
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if page.Entries == nil {
		page.Entries = []*model.AuditEntry{}
	}
	WriteJSON(w, http.StatusOK, auditListResponse{
		Entries:    page.Entries,
		NextCursor: page.NextCursor,
	})
}

// Get handles GET /api/audit/{id}.
func (h *AuditHandlers) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}
