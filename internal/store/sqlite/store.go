package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/store"
)

const columns = `id, company, role, status, job_type, salary, currency,
	location, job_link, benefits, notes, created_at, updated_at`

// Store keeps applications in a single SQLite table.
type Store struct {
	db   *sql.DB
	opts store.Options
}

var _ store.Store = (*Store)(nil)

// Open creates the database file (and its directory) if needed and runs migrations.
func Open(path string, opts store.Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, opts: opts.WithDefaults()}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS job_applications (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL CHECK (length(trim(company)) > 0),
		role TEXT NOT NULL CHECK (length(trim(role)) > 0),
		status TEXT NOT NULL DEFAULT 'Wishlist'
			CHECK (status IN ('Wishlist', 'Applied', 'Interviewing', 'Offer', 'Rejected', 'Ghosting')),
		job_type TEXT NOT NULL DEFAULT 'Full-Time'
			CHECK (job_type IN ('Internship', 'Full-Time', 'Contract')),
		salary REAL CHECK (salary IS NULL OR salary >= 0),
		currency TEXT NOT NULL DEFAULT 'RM' CHECK (currency IN ('RM', 'USD', 'SGD')),
		location TEXT NOT NULL DEFAULT '',
		job_link TEXT NOT NULL DEFAULT '',
		benefits TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_job_applications_updated_at ON job_applications(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_job_applications_status ON job_applications(status);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) List(ctx context.Context) ([]domain.JobApplication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM job_applications ORDER BY updated_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.JobApplication{}
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.JobApplication, error) {
	return get(ctx, s.db, id)
}

func (s *Store) Create(ctx context.Context, f domain.Fields) (domain.JobApplication, error) {
	rec := f.Record(s.opts.NewID(), s.now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_applications (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Company, rec.Role, string(rec.Status), string(rec.JobType), nullSalary(rec.Salary),
		string(rec.Currency), rec.Location, rec.JobLink, rec.Benefits, rec.Notes,
		rec.CreatedAt.UnixMicro(), rec.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to insert application: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := get(ctx, tx, id)
	if err != nil {
		return domain.JobApplication{}, err
	}

	p.Apply(&rec)
	rec.UpdatedAt = store.Touch(s.now(), rec.UpdatedAt)

	_, err = tx.ExecContext(ctx, `
		UPDATE job_applications SET
			company = ?, role = ?, status = ?, job_type = ?, salary = ?, currency = ?,
			location = ?, job_link = ?, benefits = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		rec.Company, rec.Role, string(rec.Status), string(rec.JobType), nullSalary(rec.Salary),
		string(rec.Currency), rec.Location, rec.JobLink, rec.Benefits, rec.Notes,
		rec.UpdatedAt.UnixMicro(), id,
	)
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to update application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to commit update: %w", err)
	}
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}

func (s *Store) now() time.Time {
	return s.opts.Now().UTC().Truncate(time.Microsecond)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer, id string) (domain.JobApplication, error) {
	row := q.QueryRowContext(ctx, `SELECT `+columns+` FROM job_applications WHERE id = ?`, id)
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobApplication{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.JobApplication, error) {
	var (
		rec                       domain.JobApplication
		status, jobType, currency string
		salary                    sql.NullFloat64
		createdAt, updatedAt      int64
	)
	err := row.Scan(&rec.ID, &rec.Company, &rec.Role, &status, &jobType, &salary, &currency,
		&rec.Location, &rec.JobLink, &rec.Benefits, &rec.Notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan application: %w", err)
	}

	rec.Status = domain.Status(status)
	rec.JobType = domain.JobType(jobType)
	rec.Currency = domain.Currency(currency)
	if salary.Valid {
		v := salary.Float64
		rec.Salary = &v
	}
	rec.CreatedAt = time.UnixMicro(createdAt).UTC()
	rec.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return rec, nil
}

func nullSalary(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
