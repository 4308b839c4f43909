package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents the urgency of a maintenance request.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Status represents the lifecycle state of a maintenance request.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ParsePriority maps client input to a canonical Priority.
// Matching is case-insensitive; empty input yields the default (Low).
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityLow, nil
	}
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q", s)
}

// ParseStatus maps client input to a canonical Status.
// Matching is case-insensitive; empty input yields the default (Pending).
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusPending, nil
	}
	for _, st := range []Status{StatusPending, StatusInProgress, StatusCompleted} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// MaintenanceRequest is the persisted record for one reported issue.
// ID is server-assigned and monotonic with insertion order; Reference is
// a ULID handle safe to share outside the numeric keyspace.
type MaintenanceRequest struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    *string   `json:"category"`
	AISummary   *string   `json:"ai_summary"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalyticsStats holds the aggregate counters for the dashboard.
// MostCommonCategory is nil when no record has a category.
type AnalyticsStats struct {
	TotalRequests      int     `json:"total_requests"`
	MostCommonCategory *string `json:"most_common_category"`
	HighPriorityCount  int     `json:"high_priority_count"`
}
