// Package storage persists the file index in SQLite.
//
// The index is a single append-only table:
//
//	file_structure(id INTEGER PRIMARY KEY AUTOINCREMENT,
//	               file_name TEXT, file_path TEXT, vector TEXT)
//
// vector holds the JSON array text of the name embedding. Names are not
// unique; every scan appends, and lookups by name return the row with the
// lowest id. A non-unique index on file_name keeps lookups cheap.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage("file_structure.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.AppendBatch(ctx, []storage.IndexedFile{
//	    {FileName: "a.py", FilePath: "./a.py", Vector: vec},
//	})
//
//	row, err := store.FindByName(ctx, "a.py")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // not indexed
//	}
//
// # Drivers
//
// The default build uses modernc.org/sqlite. Build with -tags sqlite_cgo to
// use github.com/mattn/go-sqlite3 instead.
//
// The schema version is tracked in schema_version and compared with
// Masterminds/semver. Opening an index created without a version record
// leaves the existing table as it is.
package storage
