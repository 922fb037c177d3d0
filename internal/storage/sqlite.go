package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrEmptyBatch is returned when AppendBatch is given no rows
	ErrEmptyBatch = errors.New("empty batch")
	// ErrNestedTx is returned for operations a transaction cannot perform
	ErrNestedTx = errors.New("operation not supported inside a transaction")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Readers see either side of a committed batch
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens the database at dbPath and ensures the schema exists
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// EnsureSchema creates the index table and its name index if missing
func (s *SQLiteStorage) EnsureSchema(ctx context.Context) error {
	if err := ApplyMigrations(ctx, s.db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Write operations

// appendRowsWithQuerier inserts rows in order and fills in their IDs
func (s *SQLiteStorage) appendRowsWithQuerier(ctx context.Context, q querier, rows []IndexedFile) error {
	const query = `INSERT INTO file_structure (file_name, file_path, vector) VALUES (?, ?, ?)`

	for i := range rows {
		vector, err := EncodeVector(rows[i].Vector)
		if err != nil {
			return err
		}
		result, err := q.ExecContext(ctx, query, rows[i].FileName, rows[i].FilePath, vector)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", rows[i].FilePath, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		rows[i].ID = id
	}
	return nil
}

// AppendBatch inserts all rows in one transaction. Either every row is
// committed or none is, and IDs are only set on commit.
func (s *SQLiteStorage) AppendBatch(ctx context.Context, rows []IndexedFile) (err error) {
	if len(rows) == 0 {
		return ErrEmptyBatch
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			for i := range rows {
				rows[i].ID = 0
			}
		}
	}()

	if err = tx.AppendBatch(ctx, rows); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied schema version
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (string, error) {
	v, err := currentVersion(ctx, s.db)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Read operations

func (s *SQLiteStorage) findByNameWithQuerier(ctx context.Context, q querier, fileName string) (*IndexedFile, error) {
	query := `
		SELECT id, file_name, file_path, vector
		FROM file_structure
		WHERE file_name = ?
		ORDER BY id ASC
		LIMIT 1
	`
	var (
		row    IndexedFile
		name   sql.NullString
		path   sql.NullString
		vector sql.NullString
	)
	err := q.QueryRowContext(ctx, query, fileName).Scan(&row.ID, &name, &path, &vector)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", fileName, err)
	}

	row.FileName = name.String
	row.FilePath = path.String
	if vector.Valid && strings.TrimSpace(vector.String) != "" {
		row.Vector, err = DecodeVector(vector.String)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.ID, err)
		}
	} else {
		row.Vector = []float32{}
	}
	return &row, nil
}

// FindByName returns the earliest inserted row with the given file name
func (s *SQLiteStorage) FindByName(ctx context.Context, fileName string) (*IndexedFile, error) {
	return s.findByNameWithQuerier(ctx, s.querier(), fileName)
}

func (s *SQLiteStorage) countByNameWithQuerier(ctx context.Context, q querier, fileName string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_structure WHERE file_name = ?", fileName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", fileName, err)
	}
	return n, nil
}

// CountByName returns how many rows carry the given file name
func (s *SQLiteStorage) CountByName(ctx context.Context, fileName string) (int, error) {
	return s.countByNameWithQuerier(ctx, s.querier(), fileName)
}

func (s *SQLiteStorage) countWithQuerier(ctx context.Context, q querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_structure").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// Count returns the total number of rows
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	return s.countWithQuerier(ctx, s.querier())
}

func (s *SQLiteStorage) listNamesWithQuerier(ctx context.Context, q querier) ([]string, error) {
	query := `
		SELECT file_name
		FROM file_structure
		WHERE file_name IS NOT NULL
		GROUP BY file_name
		ORDER BY MIN(id)
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListNames returns each distinct file name once, in first-insert order
func (s *SQLiteStorage) ListNames(ctx context.Context) ([]string, error) {
	return s.listNamesWithQuerier(ctx, s.querier())
}

// Transaction methods - delegate to internal implementations with tx querier

func (t *sqliteTx) EnsureSchema(ctx context.Context) error {
	return ErrNestedTx
}

// AppendBatch inserts rows within the enclosing transaction
func (t *sqliteTx) AppendBatch(ctx context.Context, rows []IndexedFile) error {
	if len(rows) == 0 {
		return ErrEmptyBatch
	}
	return t.storage.appendRowsWithQuerier(ctx, t.querier(), rows)
}

func (t *sqliteTx) FindByName(ctx context.Context, fileName string) (*IndexedFile, error) {
	return t.storage.findByNameWithQuerier(ctx, t.querier(), fileName)
}

func (t *sqliteTx) CountByName(ctx context.Context, fileName string) (int, error) {
	return t.storage.countByNameWithQuerier(ctx, t.querier(), fileName)
}

func (t *sqliteTx) Count(ctx context.Context) (int, error) {
	return t.storage.countWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) ListNames(ctx context.Context) ([]string, error) {
	return t.storage.listNamesWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	return t.Rollback()
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, ErrNestedTx
}
