package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	drawing "trefila/internal/modules/drawing/domain"
	"trefila/internal/modules/recipe/domain"
	recipeout "trefila/internal/modules/recipe/port/out"
	"trefila/internal/platform/clock"
	apperrors "trefila/internal/platform/errors"
	"trefila/internal/platform/id"
	"trefila/internal/platform/slug"
)

type RecipeService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     recipeout.RecipeStore
	projector recipeout.RecipeIndexProjector
	logger    *zap.Logger
}

func NewRecipeService(clock clock.Clock, idGen id.Generator, store recipeout.RecipeStore, projector recipeout.RecipeIndexProjector, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{clock: clock, idGen: idGen, store: store, projector: projector, logger: logger.Named("recipe")}
}

// Save stores a recipe under name. A recipe whose name maps to the same slug
// is overwritten in place and keeps its id and creation time.
func (s *RecipeService) Save(ctx context.Context, name string, date time.Time, spec drawing.DrawingSpec, diameters []float64, notes string) (domain.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Recipe{}, fmt.Errorf("%w: recipe name is required", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	if date.IsZero() {
		date = clock.Today(s.clock)
	}
	recipe := domain.Recipe{
		ID:            s.idGen.New(),
		Name:          name,
		Slug:          slug.Make(name),
		Date:          date,
		EntryDiameter: spec.EntryDiameter,
		ExitDiameter:  spec.ExitDiameter,
		PassCount:     spec.PassCount,
		Mode:          spec.Mode,
		Diameters:     append([]float64(nil), diameters...),
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	existing, err := s.findBySlug(ctx, recipe.Slug)
	if err != nil {
		return domain.Recipe{}, err
	}
	body := ""
	if existing != nil {
		recipe.ID = existing.Recipe.ID
		recipe.CreatedAt = existing.Recipe.CreatedAt
		body = existing.Body
	}
	if err := recipe.Validate(); err != nil {
		return domain.Recipe{}, err
	}
	path, err := s.store.Save(ctx, domain.RecipeDocument{Recipe: recipe, Body: body})
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.NotePath = path
	if err := s.projector.UpsertRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, err
	}
	s.logger.Info("recipe saved",
		zap.String("id", recipe.ID),
		zap.String("name", recipe.Name),
		zap.Bool("overwritten", existing != nil))
	return recipe, nil
}

func (s *RecipeService) findBySlug(ctx context.Context, recipeSlug string) (*domain.RecipeDocument, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Recipe.Slug == recipeSlug {
			return &doc, nil
		}
	}
	return nil, nil
}

// List returns every recipe note sorted by name, ignoring case.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Recipe)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Get loads one recipe by ID.
func (s *RecipeService) Get(ctx context.Context, recipeID string) (domain.Recipe, error) {
	doc, err := s.store.FindByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return doc.Recipe, nil
}

// Delete removes the note and its index rows.
func (s *RecipeService) Delete(ctx context.Context, recipeID string) error {
	if strings.TrimSpace(recipeID) == "" {
		return fmt.Errorf("%w: recipe id is required", apperrors.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, recipeID); err != nil {
		return err
	}
	if err := s.projector.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.logger.Info("recipe deleted", zap.String("id", recipeID))
	return nil
}

// Reindex rebuilds the SQLite index from the notes on disk.
func (s *RecipeService) Reindex(ctx context.Context) error {
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	docs, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.projector.UpsertRecipe(ctx, doc.Recipe); err != nil {
			return err
		}
	}
	s.logger.Info("recipe index rebuilt", zap.Int("recipes", len(docs)))
	return nil
}
