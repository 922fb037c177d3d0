package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func row(name, path string, vector ...float32) IndexedFile {
	return IndexedFile{FileName: name, FilePath: path, Vector: vector}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage.db)

	version, err := storage.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{row("a.py", "./a.py", 1)}))

	require.NoError(t, storage.EnsureSchema(ctx))
	require.NoError(t, storage.EnsureSchema(ctx))

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var versions int
	require.NoError(t, storage.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestAppendBatch_RoundTrip(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	rows := []IndexedFile{
		row("a.py", "./a.py", 0.25, -0.5, 1),
		row("README.md", "./docs/README.md", 0.125, 0, -1),
	}
	require.NoError(t, storage.AppendBatch(ctx, rows))
	assert.Greater(t, rows[0].ID, int64(0))
	assert.Greater(t, rows[1].ID, rows[0].ID)

	got, err := storage.FindByName(ctx, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "./docs/README.md", got.FilePath)
	assert.Equal(t, []float32{0.125, 0, -1}, got.Vector)
	assert.Equal(t, rows[1].ID, got.ID)

	// The stored text is a JSON array.
	var text string
	require.NoError(t, storage.db.QueryRow("SELECT vector FROM file_structure WHERE id = ?", rows[0].ID).Scan(&text))
	assert.Equal(t, "[0.25,-0.5,1]", text)
}

func TestAppendBatch_Empty(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	err := storage.AppendBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestAppendBatch_AllOrNothing(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.db.Exec(`
		CREATE TRIGGER reject_bad BEFORE INSERT ON file_structure
		WHEN NEW.file_name = 'bad.py'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END;
	`)
	require.NoError(t, err)

	ctx := context.Background()
	rows := []IndexedFile{row("good.py", "./good.py", 1), row("bad.py", "./bad.py", 1)}
	err = storage.AppendBatch(ctx, rows)
	require.Error(t, err)
	assert.Equal(t, int64(0), rows[0].ID)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAppendBatch_CancelledContext(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.AppendBatch(ctx, []IndexedFile{row("a.py", "./a.py")})
	assert.Error(t, err)

	count, err := storage.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFindByName_LowestIDWins(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{
		row("util.py", "./pkg/one/util.py", 1),
		row("other.py", "./other.py", 2),
	}))
	require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{
		row("util.py", "./pkg/two/util.py", 3),
	}))

	got, err := storage.FindByName(ctx, "util.py")
	require.NoError(t, err)
	assert.Equal(t, "./pkg/one/util.py", got.FilePath)

	n, err := storage.CountByName(ctx, "util.py")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFindByName_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.FindByName(context.Background(), "missing.py")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRescanDoublesRows(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	scan := func() {
		require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{
			row("a.py", "./a.py", 1),
			row("b.md", "./b.md", 2),
		}))
	}
	scan()
	scan()

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	names, err := storage.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.md"}, names)
}

func TestListNames_Empty(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	names, err := storage.ListNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestTransaction(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	t.Run("rollback discards rows", func(t *testing.T) {
		tx, err := storage.BeginTx(ctx)
		require.NoError(t, err)

		require.NoError(t, tx.AppendBatch(ctx, []IndexedFile{row("a.py", "./a.py")}))
		n, err := tx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, tx.Rollback())

		n, err = storage.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("commit keeps rows", func(t *testing.T) {
		tx, err := storage.BeginTx(ctx)
		require.NoError(t, err)

		require.NoError(t, tx.AppendBatch(ctx, []IndexedFile{row("b.py", "./b.py")}))
		assert.ErrorIs(t, tx.EnsureSchema(ctx), ErrNestedTx)
		require.NoError(t, tx.Commit())

		got, err := storage.FindByName(ctx, "b.py")
		require.NoError(t, err)
		assert.Equal(t, "./b.py", got.FilePath)
	})
}

func TestFileDatabase_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file_structure.db")
	ctx := context.Background()

	storage, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{row("a.py", "./a.py", 0.5)}))
	require.NoError(t, storage.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FindByName(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, got.Vector)
}

func TestExistingUnversionedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open(DriverName, path)
	require.NoError(t, err)
	_, err = raw.Exec(`
		CREATE TABLE file_structure (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_name TEXT,
			file_path TEXT,
			vector TEXT
		);
		INSERT INTO file_structure (file_name, file_path, vector) VALUES ('old.py', './old.py', '[1,2]');
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	storage, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	got, err := storage.FindByName(context.Background(), "old.py")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got.Vector)
}

func TestAppendBatch_FailedRowRollsBackBatch(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.db.Exec(`
		CREATE TRIGGER reject_bad BEFORE INSERT ON file_structure
		WHEN NEW.file_name = 'bad.py'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END;
	`)
	require.NoError(t, err)

	rows := []IndexedFile{
		row("good.py", "./good.py", 1),
		row("bad.py", "./bad.py", 2),
	}
	require.Error(t, storage.AppendBatch(ctx, rows))

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	for _, r := range rows {
		assert.Zero(t, r.ID)
	}

	require.NoError(t, storage.AppendBatch(ctx, []IndexedFile{row("good.py", "./good.py", 1)}))
	count, err = storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAppendBatch_ClosedDatabase(t *testing.T) {
	storage := setupTestDB(t)
	require.NoError(t, storage.Close())

	err := storage.AppendBatch(context.Background(), []IndexedFile{row("a.py", "./a.py", 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin batch")
}
