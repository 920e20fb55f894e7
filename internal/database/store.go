package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the gazetteer's data access operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ResolveCity returns the city row matching name exactly (case-sensitive),
	// or nil, nil when no such city exists. Absence is a normal outcome.
	ResolveCity(ctx context.Context, name string) (*City, error)

	// AddUserCity links userID to the named city. Returns false and writes
	// nothing when the name does not resolve. Not idempotent: repeated calls
	// with the same arguments append repeated links.
	AddUserCity(ctx context.Context, userID int64, name string) (bool, error)

	// ListUserCities returns the names of the cities saved by userID, in
	// store iteration order. Empty slice when the user has no links.
	ListUserCities(ctx context.Context, userID int64) ([]string, error)

	// ImportCities bulk-upserts gazetteer reference rows. Used by the seed
	// tool; the bot itself never writes the cities table.
	ImportCities(ctx context.Context, cities []City) (int, error)

	// RunMaintenance performs sqlite maintenance (VACUUM).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) ResolveCity(ctx context.Context, name string) (*City, error) {
	var city City
	err := s.db.GetContext(ctx, &city, `SELECT id, name, lat, lng FROM cities WHERE name = ?`, name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "City not found", "name", name)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error resolving city", "name", name, "error", err)
		return nil, fmt.Errorf("failed to resolve city %q: %w", name, err)
	}

	return &city, nil
}

func (s *sqlxStore) AddUserCity(ctx context.Context, userID int64, name string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving city", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	var city City
	err = tx.GetContext(ctx, &city, `SELECT id, name, lat, lng FROM cities WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		// Unknown city: no link is written.
		return false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error resolving city for link", "name", name, "error", err)
		return false, fmt.Errorf("failed to resolve city %q: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO users_cities (user_id, city_id) VALUES (?, ?)`, userID, city.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting user city link", "user_id", userID, "city_id", city.ID, "error", err)
		return false, fmt.Errorf("failed to save city %q for user %d: %w", name, userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "User city link saved", "user_id", userID, "city", name)
	return true, nil
}

func (s *sqlxStore) ListUserCities(ctx context.Context, userID int64) ([]string, error) {
	names := []string{}
	query := `
        SELECT cities.name
        FROM users_cities
        JOIN cities ON users_cities.city_id = cities.id
        WHERE users_cities.user_id = ?
        ORDER BY users_cities.rowid;
    `

	err := s.db.SelectContext(ctx, &names, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing user cities", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list cities for user %d: %w", userID, err)
	}

	return names, nil
}

func (s *sqlxStore) ImportCities(ctx context.Context, cities []City) (int, error) {
	if len(cities) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for city import", "error", err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO cities (name, lat, lng) VALUES (:name, :lat, :lng)
        ON CONFLICT (name) DO UPDATE SET lat = excluded.lat, lng = excluded.lng;
    `

	count := 0
	for i := range cities {
		if _, err := tx.NamedExecContext(ctx, query, &cities[i]); err != nil {
			s.logger.ErrorContext(ctx, "Error importing city", "name", cities[i].Name, "error", err)
			return count, fmt.Errorf("failed to import city %q: %w", cities[i].Name, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit city import", "error", err)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Imported cities", "count", count)
	return count, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	// VACUUM must run outside a transaction in sqlite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
