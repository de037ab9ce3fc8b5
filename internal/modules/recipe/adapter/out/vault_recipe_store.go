package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	drawing "trefila/internal/modules/drawing/domain"
	"trefila/internal/modules/recipe/domain"
	recipeout "trefila/internal/modules/recipe/port/out"
	apperrors "trefila/internal/platform/errors"
	"trefila/internal/platform/markdown"
)

const defaultBody = "## Notes\n\n"

type VaultRecipeStore struct {
	workspacePath string
}

func NewVaultRecipeStore(workspacePath string) recipeout.RecipeStore {
	return &VaultRecipeStore{workspacePath: workspacePath}
}

func (s *VaultRecipeStore) dir() string {
	return filepath.Join(s.workspacePath, "recipes")
}

func (s *VaultRecipeStore) Save(_ context.Context, document domain.RecipeDocument) (string, error) {
	recipe := document.Recipe
	recipePath := filepath.Join(s.dir(), recipe.Slug+".md")
	if err := os.MkdirAll(filepath.Dir(recipePath), 0o755); err != nil {
		return "", fmt.Errorf("create recipe directory: %w", err)
	}

	body := document.Body
	if existing, err := os.ReadFile(recipePath); err == nil {
		_, existingBody, splitErr := markdown.SplitFrontmatter(string(existing))
		if splitErr == nil && strings.TrimSpace(body) == "" {
			body = existingBody
		}
	}
	if strings.TrimSpace(body) == "" {
		body = defaultBody
		if strings.TrimSpace(recipe.Notes) != "" {
			body += strings.TrimSpace(recipe.Notes) + "\n"
		}
	}
	body = markdown.ReplaceManagedBlock(body, domain.ManagedPassesStart, domain.ManagedPassesEnd, recipe.PassTable())

	rendered, err := markdown.RenderFrontmatter(toFrontmatter(recipe), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(recipePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write recipe markdown: %w", err)
	}
	return recipePath, nil
}

func (s *VaultRecipeStore) FindByID(ctx context.Context, id string) (domain.RecipeDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return domain.RecipeDocument{}, err
	}
	for _, doc := range docs {
		if doc.Recipe.ID == id {
			return doc, nil
		}
	}
	return domain.RecipeDocument{}, apperrors.ErrNotFound
}

func (s *VaultRecipeStore) List(_ context.Context) ([]domain.RecipeDocument, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir(), "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob recipe notes: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.RecipeDocument, 0, len(matches))
	for _, path := range matches {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		meta, body, splitErr := markdown.SplitFrontmatter(string(content))
		if splitErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, splitErr)
		}
		recipe, convErr := fromFrontmatter(meta, path)
		if convErr != nil {
			return nil, fmt.Errorf("decode recipe %s: %w", path, convErr)
		}
		recipe.Notes = notesFromBody(body)
		out = append(out, domain.RecipeDocument{Recipe: recipe, Body: body})
	}
	return out, nil
}

func (s *VaultRecipeStore) Delete(ctx context.Context, id string) error {
	doc, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(doc.Recipe.NotePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove recipe note: %w", err)
	}
	return nil
}

func toFrontmatter(recipe domain.Recipe) map[string]any {
	return map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             recipe.ID,
		"name":           recipe.Name,
		"date":           recipe.Date.Format(domain.DateLayout),
		"entry_diameter": recipe.EntryDiameter,
		"exit_diameter":  recipe.ExitDiameter,
		"pass_count":     recipe.PassCount,
		"mode":           string(recipe.Mode),
		"diameters":      recipe.Diameters,
		"created_at":     recipe.CreatedAt.Format(time.RFC3339),
		"updated_at":     recipe.UpdatedAt.Format(time.RFC3339),
	}
}

func fromFrontmatter(meta map[string]any, notePath string) (domain.Recipe, error) {
	recipe := domain.Recipe{
		ID:            asString(meta["id"]),
		Name:          asString(meta["name"]),
		EntryDiameter: asFloat(meta["entry_diameter"]),
		ExitDiameter:  asFloat(meta["exit_diameter"]),
		PassCount:     int(asFloat(meta["pass_count"])),
		Mode:          drawing.Mode(asString(meta["mode"])),
		Diameters:     asFloatSlice(meta["diameters"]),
		NotePath:      notePath,
	}
	recipe.Slug = strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	recipe.Date = asTime(meta["date"], domain.DateLayout)
	recipe.CreatedAt = asTime(meta["created_at"], time.RFC3339)
	recipe.UpdatedAt = asTime(meta["updated_at"], time.RFC3339)
	if err := recipe.Validate(); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// notesFromBody is the free text of a note: the body minus the managed pass
// table and the default heading.
func notesFromBody(body string) string {
	if start := strings.Index(body, domain.ManagedPassesStart); start >= 0 {
		if end := strings.Index(body[start:], domain.ManagedPassesEnd); end >= 0 {
			body = body[:start] + body[start+end+len(domain.ManagedPassesEnd):]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, strings.TrimSpace(defaultBody))
	return strings.TrimSpace(body)
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// asTime accepts both quoted strings and the time.Time yaml.v3 produces for
// unquoted timestamps in hand-edited notes.
func asTime(v any, layout string) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		if t, err := time.Parse(layout, x); err == nil {
			return t
		}
		t, _ := time.Parse(time.RFC3339, x)
		return t
	default:
		return time.Time{}
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	case float32:
		return float64(x)
	case string:
		var out float64
		_, _ = fmt.Sscanf(x, "%f", &out)
		return out
	default:
		return 0
	}
}

func asFloatSlice(v any) []float64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, asFloat(item))
	}
	return out
}
