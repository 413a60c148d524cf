/*
Package sqlite provides a SQLite-backed store for rule and calendar data.

PURPOSE:
  The engine consumes rules and holidays as immutable in-memory values;
  this package is the one concrete adapter that persists them and turns
  stored rows into those values. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

WHAT IT PRODUCES:
  LoadSnapshot:  a rules.Snapshot, normalized at load time. The store
                 never hands out mutable rule state; "reload" means
                 calling LoadSnapshot again for a fresh value.
  LoadCalendar:  a calendar.Calendar for a set of years.

KEY TABLES:
  maternity_rules:  (city, leave_type, stage) day grants, labels stored raw
  allowance_rules:  per-city formula inputs, wages stored as TEXT decimals
  holidays:         holiday and make-up-workday calendar entries

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/rules.db")
  snap, err := store.LoadSnapshot(ctx)
  cal, err := store.LoadCalendar(ctx, 2025, 2026)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/rules"
)

// Store persists rule sets and holiday calendars in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to :memory: would get its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Maternity rules: one row per (city, leave type, stage)
	CREATE TABLE IF NOT EXISTS maternity_rules (
		id TEXT PRIMARY KEY,
		city TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		stage TEXT NOT NULL DEFAULT '',
		days INTEGER NOT NULL,
		extendable BOOLEAN NOT NULL DEFAULT FALSE,
		has_allowance BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_maternity_rules_unique
		ON maternity_rules(city, leave_type, stage);
	CREATE INDEX IF NOT EXISTS idx_maternity_rules_city
		ON maternity_rules(city);

	-- Allowance rules: one row per city
	CREATE TABLE IF NOT EXISTS allowance_rules (
		id TEXT PRIMARY KEY,
		city TEXT NOT NULL UNIQUE,
		social_average_wage TEXT NOT NULL,
		company_average_wage TEXT NOT NULL,
		company_contribution_wage TEXT NOT NULL,
		calculation_base TEXT NOT NULL DEFAULT '',
		payout_method TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Calendar entries: holidays and make-up workdays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'holiday',
		is_legal BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, kind);
	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MATERNITY RULES
// =============================================================================

// SaveMaternityRule inserts or replaces a rule row. A missing ID gets one.
func (s *Store) SaveMaternityRule(ctx context.Context, r rules.RawMaternityRule) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO maternity_rules
		(id, city, leave_type, stage, days, extendable, has_allowance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, leave_type, stage) DO UPDATE SET
			days = excluded.days,
			extendable = excluded.extendable,
			has_allowance = excluded.has_allowance,
			updated_at = excluded.updated_at
	`, r.ID, r.City, r.LeaveType, r.Stage, r.Days, r.Extendable, r.HasAllowance, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to save maternity rule: %w", err)
	}
	return r.ID, nil
}

// ListMaternityRules returns all raw maternity rule rows.
func (s *Store) ListMaternityRules(ctx context.Context) ([]rules.RawMaternityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, leave_type, stage, days, extendable, has_allowance
		FROM maternity_rules ORDER BY city, leave_type, stage
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maternity rules: %w", err)
	}
	defer rows.Close()

	var out []rules.RawMaternityRule
	for rows.Next() {
		var r rules.RawMaternityRule
		if err := rows.Scan(&r.ID, &r.City, &r.LeaveType, &r.Stage, &r.Days, &r.Extendable, &r.HasAllowance); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteMaternityRule removes one rule row by id.
func (s *Store) DeleteMaternityRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM maternity_rules WHERE id = ?`, id)
	return err
}

// =============================================================================
// ALLOWANCE RULES
// =============================================================================

// SaveAllowanceRule inserts or replaces a city's allowance rule.
func (s *Store) SaveAllowanceRule(ctx context.Context, r rules.RawAllowanceRule) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allowance_rules
		(id, city, social_average_wage, company_average_wage, company_contribution_wage,
		 calculation_base, payout_method, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET
			social_average_wage = excluded.social_average_wage,
			company_average_wage = excluded.company_average_wage,
			company_contribution_wage = excluded.company_contribution_wage,
			calculation_base = excluded.calculation_base,
			payout_method = excluded.payout_method,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, r.ID, r.City,
		r.SocialAverageWage.String(),
		r.CompanyAverageWage.String(),
		r.CompanyContributionWage.String(),
		r.CalculationBase, r.PayoutMethod, r.Notes, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to save allowance rule: %w", err)
	}
	return r.ID, nil
}

// ListAllowanceRules returns all raw allowance rule rows.
func (s *Store) ListAllowanceRules(ctx context.Context) ([]rules.RawAllowanceRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, social_average_wage, company_average_wage,
		       company_contribution_wage, calculation_base, payout_method, COALESCE(notes, '')
		FROM allowance_rules ORDER BY city
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowance rules: %w", err)
	}
	defer rows.Close()

	var out []rules.RawAllowanceRule
	for rows.Next() {
		var r rules.RawAllowanceRule
		var social, company, contribution string
		if err := rows.Scan(&r.ID, &r.City, &social, &company, &contribution,
			&r.CalculationBase, &r.PayoutMethod, &r.Notes); err != nil {
			return nil, err
		}
		if r.SocialAverageWage, err = decimal.NewFromString(social); err != nil {
			return nil, fmt.Errorf("bad social average wage for %s: %w", r.City, err)
		}
		if r.CompanyAverageWage, err = decimal.NewFromString(company); err != nil {
			return nil, fmt.Errorf("bad company average wage for %s: %w", r.City, err)
		}
		if r.CompanyContributionWage, err = decimal.NewFromString(contribution); err != nil {
			return nil, fmt.Errorf("bad company contribution wage for %s: %w", r.City, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts or replaces a calendar entry.
func (s *Store) SaveHoliday(ctx context.Context, e calendar.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveHolidayLocked(ctx, e)
}

func (s *Store) saveHolidayLocked(ctx context.Context, e calendar.Entry) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, kind, is_legal, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, kind) DO UPDATE SET
			name = excluded.name,
			is_legal = excluded.is_legal
	`, id, e.Date.String(), e.Name, string(e.Kind), e.IsLegalHoliday,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to save holiday: %w", err)
	}
	return id, nil
}

// SeedDefaultHolidays loads the built-in fixed-date legal holidays for a
// year. Movable holidays still need real calendar data.
func (s *Store) SeedDefaultHolidays(ctx context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range calendar.DefaultLegalHolidays(year) {
		if _, err := s.saveHolidayLocked(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// ListHolidays returns calendar entries for a year, ordered by date.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]calendar.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listHolidaysLocked(ctx, year)
}

func (s *Store) listHolidaysLocked(ctx context.Context, year int) ([]calendar.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, name, kind, is_legal FROM holidays
		WHERE date >= ? AND date <= ? ORDER BY date
	`, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var out []calendar.Entry
	for rows.Next() {
		var e calendar.Entry
		var date, kind string
		if err := rows.Scan(&date, &e.Name, &kind, &e.IsLegalHoliday); err != nil {
			return nil, err
		}
		if e.Date, err = calendar.ParseDate(date); err != nil {
			return nil, err
		}
		e.Kind = calendar.DayKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteHoliday removes an entry by date and kind.
func (s *Store) DeleteHoliday(ctx context.Context, date calendar.Date, kind calendar.DayKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = ? AND kind = ?`,
		date.String(), string(kind))
	return err
}

// =============================================================================
// SNAPSHOT & CALENDAR LOADING
// =============================================================================

// LoadSnapshot reads every rule row and builds a fresh normalized
// snapshot. Callers re-run calculations against a new snapshot after rule
// changes; nothing is cached here.
func (s *Store) LoadSnapshot(ctx context.Context) (*rules.Snapshot, error) {
	maternityRows, err := s.ListMaternityRules(ctx)
	if err != nil {
		return nil, err
	}
	allowanceRows, err := s.ListAllowanceRules(ctx)
	if err != nil {
		return nil, err
	}
	return rules.BuildSnapshot(maternityRows, allowanceRows)
}

// LoadCalendar builds a calendar covering the given years.
func (s *Store) LoadCalendar(ctx context.Context, years ...int) (*calendar.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []calendar.Entry
	for _, year := range years {
		yearEntries, err := s.listHolidaysLocked(ctx, year)
		if err != nil {
			return nil, err
		}
		entries = append(entries, yearEntries...)
	}
	return calendar.New(entries), nil
}
