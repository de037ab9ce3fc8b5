package in

import (
	"context"

	"trefila/internal/modules/recipe/dto"
	recipein "trefila/internal/modules/recipe/port/in"
)

type CLIHandler struct {
	usecase recipein.Usecase
}

func NewCLIHandler(usecase recipein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Save(ctx context.Context, input dto.SaveRecipeInput) (dto.RecipeOutput, error) {
	return h.usecase.Save(ctx, input)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.RecipeOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.RecipeDetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}
