package axis

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // test cleanup
	})

	schema := `
		CREATE TABLE axes (
			name       TEXT PRIMARY KEY,
			type       TEXT NOT NULL,
			alias      TEXT,
			min        REAL NOT NULL DEFAULT 0,
			max        REAL NOT NULL DEFAULT 1,
			value      REAL NOT NULL DEFAULT 0.5,
			bool_value INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func TestSQLiteRepository_SaveAndLoad(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()

	axes := []Config{
		{Name: "L0", Type: TypeLinear, Alias: "stroke", Min: 0, Max: 1, Value: Number(0.5)},
		{Name: "R0", Type: TypeRotation, Alias: "twist", Min: 0.2, Max: 0.8, Value: Number(0.4)},
		{Name: "V0", Type: TypeBoolean, Min: 0, Max: 1, Value: Boolean(true)},
	}
	for _, c := range axes {
		if err := repo.Save(ctx, c); err != nil {
			t.Fatalf("Save(%s) error = %v", c.Name, err)
		}
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("LoadAll() returned %d axes, want 3", len(loaded))
	}

	// Ordered by name: L0, R0, V0
	if loaded[1].Min != 0.2 || loaded[1].Max != 0.8 {
		t.Errorf("R0 limits = %v..%v, want 0.2..0.8", loaded[1].Min, loaded[1].Max)
	}
	if !loaded[2].Value.On {
		t.Error("V0 value = off, want on")
	}
	if loaded[0].Alias != "stroke" {
		t.Errorf("L0 alias = %q, want stroke", loaded[0].Alias)
	}
}

func TestSQLiteRepository_SaveReplaces(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()

	cfg := Config{Name: "L0", Type: TypeLinear, Min: 0, Max: 1, Value: Number(0.5)}
	if err := repo.Save(ctx, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cfg.Min, cfg.Max = 0.3, 0.9
	if err := repo.Save(ctx, cfg); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, _ := repo.LoadAll(ctx)
	if len(loaded) != 1 {
		t.Fatalf("LoadAll() returned %d axes, want 1", len(loaded))
	}
	if loaded[0].Min != 0.3 {
		t.Errorf("Min = %v, want 0.3", loaded[0].Min)
	}
}

func TestSQLiteRepository_SaveValue(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, Config{Name: "L0", Type: TypeLinear, Max: 1, Value: Number(0.5)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := repo.SaveValue(ctx, "L0", Number(0.75)); err != nil {
		t.Fatalf("SaveValue() error = %v", err)
	}

	loaded, _ := repo.LoadAll(ctx)
	if loaded[0].Value.Num != 0.75 {
		t.Errorf("value = %v, want 0.75", loaded[0].Value.Num)
	}

	if err := repo.SaveValue(ctx, "R9", Number(0.5)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveValue(unknown) = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, Config{Name: "L0", Type: TypeLinear, Max: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := repo.Delete(ctx, "L0"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "L0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}
