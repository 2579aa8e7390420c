// Package database provides SQLite persistence for motiond.
//
// It wraps database/sql with connection configuration tuned for SQLite
// (single writer, WAL mode, busy timeout) and applies the schema on open.
// The only persisted entity is the axis set: configuration plus the last
// committed value of every axis, so a device resumes where it stopped.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package database
