//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// KpiMetric is a single headline figure for the dashboards.
type KpiMetric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Period string  `json:"period,omitempty"`
}

// DepartmentHeadcount is one bar of the headcount-by-department chart.
type DepartmentHeadcount struct {
	Department string `json:"department" db:"department"`
	Count      int    `json:"count"      db:"count"`
}

// LeaveTypeCount aggregates leave requests per type.
type LeaveTypeCount struct {
	Type  LeaveType `json:"type"  db:"type"`
	Count int       `json:"count" db:"count"`
}

// Activity is a recent-activity feed item derived from the audit log.
type Activity struct {
	ID         string          `json:"id"`
	EntityType AuditEntityType `json:"entity_type"`
	Message    string          `json:"message"`
	ActorID    string          `json:"actor_id,omitempty"`
	ActorName  string          `json:"actor_name,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
