//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// AuditEntityType names the record type an audit entry refers to.
type AuditEntityType string

const (
	AuditEntityEmployee AuditEntityType = "employee"
	AuditEntityLeave    AuditEntityType = "leave"
	AuditEntityReview   AuditEntityType = "review"
	AuditEntitySession  AuditEntityType = "session"
	AuditEntitySystem   AuditEntityType = "system"
)

// Valid reports whether the audit entity type is supported.
func (t AuditEntityType) Valid() bool {
	switch t {
	case AuditEntityEmployee, AuditEntityLeave, AuditEntityReview,
		AuditEntitySession, AuditEntitySystem:
		return true
	default:
		return false
	}
}

// AuditStatus records whether the audited action succeeded.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEntry is one append-only record of a mutation or security event.
// Entries are never updated or deleted.
type AuditEntry struct {
	ID         string          `json:"id"                  db:"id"`
	Actor      string          `json:"actor"               db:"actor"`
	ActorID    string          `json:"actor_id,omitempty"  db:"actor_id"`
	Action     string          `json:"action"              db:"action"`
	EntityType AuditEntityType `json:"entity_type"         db:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty" db:"entity_id"`
	Status     AuditStatus     `json:"status"              db:"status"`
	Metadata   map[string]any  `json:"metadata,omitempty"  db:"metadata"`
	CreatedAt  time.Time       `json:"created_at"          db:"created_at"`
}

// RecordAuditRequest represents parameters to append an audit entry.
type RecordAuditRequest struct {
	Actor      string          `json:"actor"`
	ActorID    string          `json:"actor_id,omitempty"`
	Action     string          `json:"action"`
	EntityType AuditEntityType `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Status     AuditStatus     `json:"status,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// AuditListOptions controls paging and filtering for listing audit entries.
// MetadataQuery is an optional JMESPath expression evaluated against each
// entry's metadata; entries where it yields a falsy result are filtered out.
type AuditListOptions struct {
	Limit         int
	Cursor        string
	EntityType    *AuditEntityType // exact match
	ActorID       *string          // exact match
	Action        *string          // exact match
	Since         *time.Time
	Until         *time.Time
	MetadataQuery string
}

// Validate validates RecordAuditRequest.
func (r *RecordAuditRequest) Validate() error {
	if strings.TrimSpace(r.Actor) == "" {
		return errors.New("actor is required")
	}
	if strings.TrimSpace(r.Action) == "" {
		return errors.New("action is required")
	}
	if !r.EntityType.Valid() {
		return errors.New("invalid entity_type")
	}
	if r.Status == "" {
		r.Status = AuditStatusSuccess
	}
	if r.Status != AuditStatusSuccess && r.Status != AuditStatusFailed {
		return errors.New("invalid status")
	}
	return nil
}
