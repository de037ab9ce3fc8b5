package out

import (
	"context"

	"trefila/internal/modules/recipe/domain"
)

type RecipeStore interface {
	Save(ctx context.Context, document domain.RecipeDocument) (string, error)
	FindByID(ctx context.Context, id string) (domain.RecipeDocument, error)
	List(ctx context.Context) ([]domain.RecipeDocument, error)
	Delete(ctx context.Context, id string) error
}

type RecipeIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertRecipe(ctx context.Context, recipe domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}
