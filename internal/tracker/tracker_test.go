package tracker

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/mrt/internal/models"
	"github.com/fixwell/mrt/internal/store"
)

// stubEngine returns fixed values and records what it was asked.
type stubEngine struct {
	category string
	summary  string

	classifyCalls  int
	summarizeCalls int
	lastInput      string
}

func (e *stubEngine) SuggestCategory(_ context.Context, description string) string {
	e.classifyCalls++
	e.lastInput = description
	return e.category
}

func (e *stubEngine) GenerateSummary(_ context.Context, description string) string {
	e.summarizeCalls++
	e.lastInput = description
	return e.summary
}

func newTestService(t *testing.T, engine *stubEngine, summaries bool) *Service {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return New(s, engine, summaries)
}

func TestCreate_FullPipeline(t *testing.T) {
	engine := &stubEngine{category: "Plumbing", summary: "Sink is leaking"}
	svc := newTestService(t, engine, true)

	req, err := svc.Create(context.Background(), CreateInput{
		Title:       "Leaky sink",
		Description: "Water is dripping under the kitchen sink.",
		Priority:    "high",
	})
	require.NoError(t, err)

	assert.NotZero(t, req.ID)
	assert.NotEmpty(t, req.Reference)
	require.NotNil(t, req.Category)
	assert.Equal(t, "Plumbing", *req.Category)
	require.NotNil(t, req.AISummary)
	assert.Equal(t, "Sink is leaking", *req.AISummary)
	assert.Equal(t, models.PriorityHigh, req.Priority)
	assert.Equal(t, models.StatusPending, req.Status)

	assert.Equal(t, 1, engine.classifyCalls)
	assert.Equal(t, 1, engine.summarizeCalls)
	assert.Equal(t, "Water is dripping under the kitchen sink.", engine.lastInput)
}

func TestCreate_DefaultsPriorityAndStatus(t *testing.T) {
	svc := newTestService(t, &stubEngine{category: "General", summary: "x"}, true)

	req, err := svc.Create(context.Background(), CreateInput{
		Title:       "Something broke",
		Description: "It is broken.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, req.Priority)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestCreate_SummariesDisabled(t *testing.T) {
	engine := &stubEngine{category: "Electrical", summary: "should not appear"}
	svc := newTestService(t, engine, false)

	req, err := svc.Create(context.Background(), CreateInput{
		Title:       "Outlet sparking",
		Description: "The outlet in the hallway sparks.",
	})
	require.NoError(t, err)

	assert.Nil(t, req.AISummary)
	assert.Equal(t, 0, engine.summarizeCalls)
	assert.Equal(t, 1, engine.classifyCalls, "classification still runs")
}

func TestCreate_Validation(t *testing.T) {
	engine := &stubEngine{category: "General", summary: "x"}
	svc := newTestService(t, engine, true)

	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"empty title", CreateInput{Description: "desc"}, "title"},
		{"title too long", CreateInput{Title: strings.Repeat("x", 256), Description: "desc"}, "title"},
		{"empty description", CreateInput{Title: "t"}, "description"},
		{"bad priority", CreateInput{Title: "t", Description: "d", Priority: "urgent"}, "priority"},
		{"bad status", CreateInput{Title: "t", Description: "d", Status: "open"}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.Equal(t, 0, engine.classifyCalls, "validation rejects before any AI call")
}

func TestCreate_TitleAtMaxLength(t *testing.T) {
	svc := newTestService(t, &stubEngine{category: "General", summary: "x"}, true)

	t.Run("ascii", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateInput{
			Title:       strings.Repeat("x", MaxTitleLength),
			Description: "desc",
		})
		assert.NoError(t, err)
	})

	// The limit counts characters, not bytes. A 200-character Arabic
	// title is 400 bytes and must still be accepted.
	t.Run("multi-byte runes count as one character", func(t *testing.T) {
		title := strings.Repeat("م", 200)
		require.Greater(t, len(title), MaxTitleLength)

		_, err := svc.Create(context.Background(), CreateInput{
			Title:       title,
			Description: "desc",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects one character over the limit", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateInput{
			Title:       strings.Repeat("م", MaxTitleLength+1),
			Description: "desc",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})
}

func TestGet(t *testing.T) {
	svc := newTestService(t, &stubEngine{category: "General", summary: "x"}, true)

	created, err := svc.Create(context.Background(), CreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Reference, got.Reference)
}

func TestList_Envelope(t *testing.T) {
	svc := newTestService(t, &stubEngine{category: "General", summary: "x"}, true)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, CreateInput{Title: title, Description: "d"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "third", page.Items[0].Title)
}

func TestList_EmptyStoreReturnsEmptySlice(t *testing.T) {
	svc := newTestService(t, &stubEngine{}, true)

	page, err := svc.List(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Pages)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name              string
		skip, limit, total int
		wantPage, wantPages int
	}{
		{"empty set", 0, 5, 0, 1, 1},
		{"single partial page", 0, 5, 3, 1, 1},
		{"exact page boundary", 0, 5, 10, 1, 2},
		{"one past boundary", 0, 5, 11, 1, 3},
		{"second page", 5, 5, 11, 2, 3},
		{"skip within a page", 2, 5, 11, 1, 3},
		{"limit one", 1, 1, 2, 2, 2},
		{"zero limit guarded", 0, 0, 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pages := Paginate(tt.skip, tt.limit, tt.total)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPages, pages)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "title", Reason: "must not be empty"}
	assert.Equal(t, "title: must not be empty", err.Error())
}
