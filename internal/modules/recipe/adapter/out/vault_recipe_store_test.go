package out_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	drawing "trefila/internal/modules/drawing/domain"
	"trefila/internal/modules/recipe/adapter/out"
	"trefila/internal/modules/recipe/domain"
	apperrors "trefila/internal/platform/errors"

	_ "modernc.org/sqlite"
)

func sampleRecipe() domain.Recipe {
	now := time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC)
	return domain.Recipe{
		ID:            "r-1",
		Name:          "Mesh wire 5.5-3.2",
		Slug:          "mesh-wire-5-5-3-2",
		Date:          time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		EntryDiameter: 5.5,
		ExitDiameter:  3.2,
		PassCount:     4,
		Mode:          drawing.ModeUniform,
		Diameters:     []float64{4.804, 4.195, 3.664, 3.2},
		Notes:         "first trial on line 2",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestVaultRecipeStoreSaveListFindDelete(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	store := out.NewVaultRecipeStore(ws)
	ctx := context.Background()

	path, err := store.Save(ctx, domain.RecipeDocument{Recipe: sampleRecipe()})
	if err != nil {
		t.Fatalf("save recipe: %v", err)
	}
	if path != filepath.Join(ws, "recipes", "mesh-wire-5-5-3-2.md") {
		t.Fatalf("unexpected note path %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	text := string(content)
	for _, want := range []string{"name: Mesh wire 5.5-3.2", "mode: uniform", domain.ManagedPassesStart, "| 2 | 4.195 |", "first trial on line 2"} {
		if !strings.Contains(text, want) {
			t.Fatalf("note missing %q:\n%s", want, text)
		}
	}

	doc, err := store.FindByID(ctx, "r-1")
	if err != nil {
		t.Fatalf("find recipe: %v", err)
	}
	got := doc.Recipe
	if got.Name != "Mesh wire 5.5-3.2" || got.PassCount != 4 || got.Diameters[3] != 3.2 || got.Mode != drawing.ModeUniform {
		t.Fatalf("unexpected decoded recipe: %+v", got)
	}
	if got.Notes != "first trial on line 2" {
		t.Fatalf("notes not recovered from body: %q", got.Notes)
	}
	if !got.Date.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)) || !got.CreatedAt.Equal(sampleRecipe().CreatedAt) {
		t.Fatalf("dates not preserved: %+v", got)
	}

	if err := store.Delete(ctx, "r-1"); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	if _, err := store.FindByID(ctx, "r-1"); err != apperrors.ErrNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, "r-1"); err != apperrors.ErrNotFound {
		t.Fatalf("expected not found deleting twice, got %v", err)
	}
}

func TestVaultRecipeStoreKeepsUserTextOnResave(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	store := out.NewVaultRecipeStore(ws)
	ctx := context.Background()

	path, err := store.Save(ctx, domain.RecipeDocument{Recipe: sampleRecipe()})
	if err != nil {
		t.Fatalf("save recipe: %v", err)
	}
	content, _ := os.ReadFile(path)
	edited := strings.Replace(string(content), "first trial on line 2", "operator: lubricant changed", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit note: %v", err)
	}

	recipe := sampleRecipe()
	recipe.Diameters = []float64{4.9, 4.195, 3.664, 3.2}
	if _, err := store.Save(ctx, domain.RecipeDocument{Recipe: recipe}); err != nil {
		t.Fatalf("resave recipe: %v", err)
	}
	content, _ = os.ReadFile(path)
	text := string(content)
	if !strings.Contains(text, "operator: lubricant changed") {
		t.Fatalf("user text lost on resave:\n%s", text)
	}
	if !strings.Contains(text, "| 1 | 4.900 |") || strings.Contains(text, "| 1 | 4.804 |") {
		t.Fatalf("pass table not regenerated:\n%s", text)
	}
	if strings.Count(text, domain.ManagedPassesStart) != 1 {
		t.Fatalf("managed block duplicated:\n%s", text)
	}
}

func TestVaultRecipeStoreRejectsInvalidNote(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	dir := filepath.Join(ws, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	note := "---\nid: x\nname: broken\nentry_diameter: 3\nexit_diameter: 5\npass_count: 1\nmode: uniform\ndiameters: [5]\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.md"), []byte(note), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	if _, err := out.NewVaultRecipeStore(ws).List(context.Background()); err == nil {
		t.Fatalf("invalid recipe note should fail to decode")
	}
}

func TestVaultRecipeStoreReadsUnquotedDates(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	dir := filepath.Join(ws, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	note := "---\nid: hand\nname: hand written\ndate: 2026-09-01\nentry_diameter: 6.5\nexit_diameter: 5\npass_count: 2\nmode: progressive\ndiameters: [5.7, 5]\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "hand-written.md"), []byte(note), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	docs, err := out.NewVaultRecipeStore(ws).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].Recipe.Date.Format(domain.DateLayout) != "2026-09-01" || docs[0].Recipe.Diameters[1] != 5 {
		t.Fatalf("unexpected recipes: %+v", docs)
	}
}

func TestSQLiteRecipeProjector(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), ".trefila", "trefila.db")
	projector, err := out.NewSQLiteRecipeProjector(dbPath)
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()
	recipe := sampleRecipe()
	if err := projector.UpsertRecipe(ctx, recipe); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	recipe.PassCount = 2
	recipe.Diameters = []float64{4.2, 3.2}
	if err := projector.UpsertRecipe(ctx, recipe); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	var recipes, passes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&recipes); err != nil {
		t.Fatalf("count recipes: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM recipe_passes WHERE recipe_id = ?`, recipe.ID).Scan(&passes); err != nil {
		t.Fatalf("count passes: %v", err)
	}
	if recipes != 1 || passes != 2 {
		t.Fatalf("expected 1 recipe with 2 passes, got %d/%d", recipes, passes)
	}
	var status string
	if err := db.QueryRow(`SELECT status FROM recipe_passes WHERE recipe_id = ? AND pass = 1`, recipe.ID).Scan(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status != "high" {
		t.Fatalf("expected first pass graded high, got %s", status)
	}

	if err := projector.DeleteRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM recipe_passes`).Scan(&passes); err != nil {
		t.Fatalf("count passes after delete: %v", err)
	}
	if passes != 0 {
		t.Fatalf("expected passes removed, got %d", passes)
	}
}
