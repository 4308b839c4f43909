package tracker

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/fixwell/mrt/internal/ai"
	"github.com/fixwell/mrt/internal/models"
	"github.com/fixwell/mrt/internal/store"
)

// MaxTitleLength is the longest accepted request title, in characters
// rather than bytes, so multi-byte input is not penalized.
const MaxTitleLength = 255

// ValidationError describes rejected client input. It is the only error
// the ingestion pipeline produces before any side effect occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Service orchestrates the ingestion pipeline and the query layer over the
// store and the AI engine. Dependencies are injected at construction;
// there is no ambient client state.
type Service struct {
	store     store.Store
	engine    ai.Engine
	summaries bool
}

// New creates a Service. When summaries is false the pipeline skips the
// summarizer and persisted records carry a null ai_summary.
func New(st store.Store, engine ai.Engine, summaries bool) *Service {
	return &Service{
		store:     st,
		engine:    engine,
		summaries: summaries,
	}
}

// CreateInput carries the client-supplied fields of a new request.
// Priority and Status are raw strings so the pipeline owns defaulting and
// enum validation.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// Create runs the ingestion pipeline: validate, classify, summarize (if
// enabled), persist. Classification and summarization cannot fail — the
// engine absorbs external faults — so validation is the only short-circuit
// and the insert is the only durable side effect.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.MaintenanceRequest, error) {
	if in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return nil, &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if in.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of Low, Medium, High"}
	}
	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, &ValidationError{Field: "status", Reason: "must be one of Pending, In Progress, Completed"}
	}

	category := s.engine.SuggestCategory(ctx, in.Description)

	req := &models.MaintenanceRequest{
		Title:       in.Title,
		Description: in.Description,
		Category:    &category,
		Priority:    priority,
		Status:      status,
	}
	if s.summaries {
		summary := s.engine.GenerateSummary(ctx, in.Description)
		req.AISummary = &summary
	}

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("persist request: %w", err)
	}
	return req, nil
}

// Get returns a single request by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.MaintenanceRequest, error) {
	return s.store.GetRequest(ctx, id)
}

// Page is one page of maintenance requests plus the pagination envelope.
type Page struct {
	Items []*models.MaintenanceRequest `json:"items"`
	Total int                          `json:"total"`
	Page  int                          `json:"page"`
	Pages int                          `json:"pages"`
}

// List returns one page of requests, newest first.
func (s *Service) List(ctx context.Context, skip, limit int) (*Page, error) {
	items, total, err := s.store.ListRequests(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if items == nil {
		items = []*models.MaintenanceRequest{}
	}

	page, pages := Paginate(skip, limit, total)
	return &Page{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// Stats returns the aggregate analytics counters.
func (s *Service) Stats(ctx context.Context) (*models.AnalyticsStats, error) {
	return s.store.AnalyticsStats(ctx)
}

// Paginate computes the 1-based page number for a skip offset and the
// total page count for a result set. Pages is never below 1, so an empty
// result set still renders as a single empty page.
func Paginate(skip, limit, total int) (page, pages int) {
	if limit <= 0 {
		return 1, 1
	}
	page = skip/limit + 1
	pages = (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return page, pages
}
