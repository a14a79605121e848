package sqldb

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"muhasib-api/internal/models"
	"muhasib-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// WaitlistRepository implements repositories.WaitlistRepository on
// database/sql for the supported dialects.
type WaitlistRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *logrus.Logger

	mu      sync.Mutex
	ensured bool
}

// NewWaitlistRepository creates a waitlist repository for the given dialect
func NewWaitlistRepository(db *sql.DB, dialect Dialect, logger *logrus.Logger) *WaitlistRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &WaitlistRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

// EnsureSchema creates the waitlist table if absent and adds the email
// column to tables created before it existed. Safe to call per request; the
// DDL runs once per process and is retried on failure.
func (r *WaitlistRepository) EnsureSchema(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ensured {
		return nil
	}

	if err := r.createTable(ctx); err != nil {
		return repositories.NewRepositoryError("ensure_schema", "waitlist", err)
	}

	if err := r.addEmailColumn(ctx); err != nil {
		return repositories.NewRepositoryError("ensure_schema", "waitlist", err)
	}

	r.ensured = true
	r.logger.WithField("dialect", string(r.dialect)).Debug("Waitlist schema ensured")
	return nil
}

func (r *WaitlistRepository) createTable(ctx context.Context) error {
	var ddl string
	switch r.dialect {
	case DialectPostgres:
		ddl = `
			CREATE TABLE IF NOT EXISTS waitlist (
				id SERIAL PRIMARY KEY,
				phone VARCHAR(20) NOT NULL,
				email VARCHAR(255),
				business VARCHAR(255) NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`
	default:
		ddl = `
			CREATE TABLE IF NOT EXISTS waitlist (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				phone TEXT NOT NULL,
				email TEXT,
				business TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`
	}

	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// addEmailColumn tolerates tables from the pre-email schema version
func (r *WaitlistRepository) addEmailColumn(ctx context.Context) error {
	if r.dialect == DialectPostgres {
		_, err := r.db.ExecContext(ctx, "ALTER TABLE waitlist ADD COLUMN IF NOT EXISTS email VARCHAR(255)")
		return err
	}

	// SQLite has no ADD COLUMN IF NOT EXISTS; attempt and swallow the
	// duplicate-column error.
	_, err := r.db.ExecContext(ctx, "ALTER TABLE waitlist ADD COLUMN email TEXT")
	if err != nil && strings.Contains(err.Error(), "duplicate column name") {
		return nil
	}
	return err
}

// ExistsByPhoneOrEmail reports whether any row matches the phone or email
func (r *WaitlistRepository) ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	query := r.dialect.Rebind("SELECT id FROM waitlist WHERE phone = ? OR email = ? LIMIT 1")

	var id int64
	err := r.queryRow(ctx, "exists", query, phone, email).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, repositories.NewRepositoryError("exists", "waitlist", err)
	}

	return true, nil
}

// Create inserts a new signup row and fills in the generated ID
func (r *WaitlistRepository) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	if err := entry.Validate(); err != nil {
		return repositories.ValidationError("waitlist", err)
	}

	if r.dialect == DialectPostgres {
		query := r.dialect.Rebind(
			"INSERT INTO waitlist (phone, email, business) VALUES (?, ?, ?) RETURNING id, created_at")
		err := r.queryRow(ctx, "create", query, entry.Phone, entry.Email, entry.Business).
			Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return repositories.NewRepositoryError("create", "waitlist", err)
		}
		return nil
	}

	result, err := r.exec(ctx, "create",
		"INSERT INTO waitlist (phone, email, business) VALUES (?, ?, ?)",
		entry.Phone, entry.Email, entry.Business)
	if err != nil {
		return repositories.NewRepositoryError("create", "waitlist", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return repositories.NewRepositoryError("create", "waitlist", err)
	}
	entry.ID = id
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	return nil
}

// List returns the most recent signups, newest first
func (r *WaitlistRepository) List(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := r.dialect.Rebind(`
		SELECT id, phone, email, business, created_at
		FROM waitlist
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", "waitlist", err)
	}
	defer rows.Close()

	var entries []*models.WaitlistEntry
	for rows.Next() {
		entry := &models.WaitlistEntry{}
		var email sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Phone, &email, &entry.Business, &entry.CreatedAt); err != nil {
			return nil, repositories.NewRepositoryError("list", "waitlist", err)
		}
		entry.Email = email.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "waitlist", err)
	}

	return entries, nil
}

// Count returns the total number of signups
func (r *WaitlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.queryRow(ctx, "count", "SELECT COUNT(*) FROM waitlist").Scan(&count)
	if err != nil {
		return 0, repositories.NewRepositoryError("count", "waitlist", err)
	}
	return count, nil
}

// queryRow executes a single-row query and logs it
func (r *WaitlistRepository) queryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, time.Since(start), nil)
	return row
}

// exec executes a statement and logs it
func (r *WaitlistRepository) exec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.logQuery(operation, query, time.Since(start), err)
	return result, err
}

func (r *WaitlistRepository) logQuery(operation, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     "waitlist",
		"query":     query,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}
