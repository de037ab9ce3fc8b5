package in

import (
	"context"

	"trefila/internal/modules/recipe/dto"
)

type Usecase interface {
	Save(ctx context.Context, input dto.SaveRecipeInput) (dto.RecipeOutput, error)
	List(ctx context.Context) ([]dto.RecipeOutput, error)
	Get(ctx context.Context, id string) (dto.RecipeDetailOutput, error)
	Delete(ctx context.Context, id string) error
	Reindex(ctx context.Context, input dto.ReindexInput) error
}
