package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fixwell/mrt/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limiting to a single
	// connection serializes all DB access through Go's connection pool,
	// preventing "database is locked" errors from concurrent HTTP requests.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRequest inserts a new maintenance request inside a transaction and
// fills in the server-assigned fields on the passed struct.
func (s *SQLiteStore) CreateRequest(ctx context.Context, req *models.MaintenanceRequest) error {
	if req.Reference == "" {
		req.Reference = newULID()
	}
	req.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO maintenance_requests (reference, title, description, category, ai_summary, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Reference, req.Title, req.Description, req.Category, req.AISummary,
		string(req.Priority), string(req.Status), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("request id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	req.ID = id
	return nil
}

func (s *SQLiteStore) GetRequest(ctx context.Context, id int64) (*models.MaintenanceRequest, error) {
	req := &models.MaintenanceRequest{}
	var priority, status string
	var category, aiSummary sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, reference, title, description, category, ai_summary, priority, status, created_at
		FROM maintenance_requests WHERE id = ?`, id,
	).Scan(&req.ID, &req.Reference, &req.Title, &req.Description,
		&category, &aiSummary, &priority, &status, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	req.Priority = models.Priority(priority)
	req.Status = models.Status(status)
	if category.Valid {
		req.Category = &category.String
	}
	if aiSummary.Valid {
		req.AISummary = &aiSummary.String
	}
	return req, nil
}

// ListRequests returns one page of requests ordered by created_at
// descending (id descending breaks ties, since id is monotonic with
// insertion), plus the total row count.
func (s *SQLiteStore) ListRequests(ctx context.Context, skip, limit int) ([]*models.MaintenanceRequest, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM maintenance_requests").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reference, title, description, category, ai_summary, priority, status, created_at
		FROM maintenance_requests
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []*models.MaintenanceRequest
	for rows.Next() {
		req := &models.MaintenanceRequest{}
		var priority, status string
		var category, aiSummary sql.NullString

		if err := rows.Scan(&req.ID, &req.Reference, &req.Title, &req.Description,
			&category, &aiSummary, &priority, &status, &req.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}

		req.Priority = models.Priority(priority)
		req.Status = models.Status(status)
		if category.Valid {
			req.Category = &category.String
		}
		if aiSummary.Valid {
			req.AISummary = &aiSummary.String
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

// AnalyticsStats aggregates the dashboard counters in one pass. The most
// common category query breaks count ties alphabetically so the result is
// deterministic.
func (s *SQLiteStore) AnalyticsStats(ctx context.Context) (*models.AnalyticsStats, error) {
	stats := &models.AnalyticsStats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM maintenance_requests").Scan(&stats.TotalRequests); err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE priority = ?",
		string(models.PriorityHigh),
	).Scan(&stats.HighPriorityCount)
	if err != nil {
		return nil, fmt.Errorf("count high priority: %w", err)
	}

	var category string
	err = s.db.QueryRowContext(ctx,
		`SELECT category FROM maintenance_requests
		WHERE category IS NOT NULL
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
		LIMIT 1`,
	).Scan(&category)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("most common category: %w", err)
	}
	if err == nil {
		stats.MostCommonCategory = &category
	}

	return stats, nil
}
