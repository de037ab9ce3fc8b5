package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	drawing "trefila/internal/modules/drawing/domain"
	"trefila/internal/modules/recipe/domain"
	recipeout "trefila/internal/modules/recipe/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteRecipeProjector struct {
	db *sql.DB
}

func NewSQLiteRecipeProjector(dbPath string) (recipeout.RecipeIndexProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteRecipeProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteRecipeProjector) ensureSchema(ctx context.Context) error {
	ddl := []string{`
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  recipe_date TEXT NOT NULL,
  entry_diameter REAL NOT NULL,
  exit_diameter REAL NOT NULL,
  pass_count INTEGER NOT NULL,
  mode TEXT NOT NULL,
  note_path TEXT,
  updated_at TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS recipe_passes (
  recipe_id TEXT NOT NULL,
  pass INTEGER NOT NULL,
  diameter REAL NOT NULL,
  reduction_percent REAL NOT NULL,
  status TEXT NOT NULL,
  PRIMARY KEY (recipe_id, pass)
)`}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create recipe tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteRecipeProjector) Reset(ctx context.Context) error {
	for _, table := range []string{"recipe_passes", "recipes"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteRecipeProjector) UpsertRecipe(ctx context.Context, recipe domain.Recipe) error {
	const stmt = `
INSERT INTO recipes (id, name, slug, recipe_date, entry_diameter, exit_diameter, pass_count, mode, note_path, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  slug=excluded.slug,
  recipe_date=excluded.recipe_date,
  entry_diameter=excluded.entry_diameter,
  exit_diameter=excluded.exit_diameter,
  pass_count=excluded.pass_count,
  mode=excluded.mode,
  note_path=excluded.note_path,
  updated_at=excluded.updated_at;
`
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recipe upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt,
		recipe.ID,
		recipe.Name,
		recipe.Slug,
		recipe.Date.Format(domain.DateLayout),
		recipe.EntryDiameter,
		recipe.ExitDiameter,
		recipe.PassCount,
		string(recipe.Mode),
		recipe.NotePath,
		recipe.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	); err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_passes WHERE recipe_id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("clear recipe passes: %w", err)
	}
	reductions := drawing.Classify(drawing.ComputeReductions(recipe.EntryDiameter, recipe.Diameters), recipe.Mode)
	for i, r := range reductions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_passes (recipe_id, pass, diameter, reduction_percent, status) VALUES (?, ?, ?, ?, ?)`,
			recipe.ID, r.Pass, recipe.Diameters[i], r.ReductionPercent, string(r.Status),
		); err != nil {
			return fmt.Errorf("insert recipe pass %d: %w", r.Pass, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recipe upsert: %w", err)
	}
	return nil
}

func (s *SQLiteRecipeProjector) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recipe_passes WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe passes: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
