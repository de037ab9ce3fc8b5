package usecase

import (
	"context"
	"fmt"

	drawing "trefila/internal/modules/drawing/domain"
	drawingdto "trefila/internal/modules/drawing/dto"
	drawingin "trefila/internal/modules/drawing/port/in"
	"trefila/internal/modules/recipe/domain"
	"trefila/internal/modules/recipe/dto"
	recipein "trefila/internal/modules/recipe/port/in"
	"trefila/internal/modules/recipe/service"
)

type Interactor struct {
	svc     *service.RecipeService
	drawing drawingin.Usecase
}

func NewInteractor(svc *service.RecipeService, drawing drawingin.Usecase) recipein.Usecase {
	return &Interactor{svc: svc, drawing: drawing}
}

func (i *Interactor) Save(ctx context.Context, input dto.SaveRecipeInput) (dto.RecipeOutput, error) {
	diameters := input.Diameters
	if len(diameters) == 0 {
		if i.drawing == nil {
			return dto.RecipeOutput{}, fmt.Errorf("recipe %q has no dies and no scheduler is configured", input.Name)
		}
		scheduled, err := i.drawing.Schedule(ctx, drawingdto.ScheduleInput{
			EntryDiameter: input.EntryDiameter,
			ExitDiameter:  input.ExitDiameter,
			PassCount:     input.PassCount,
			Mode:          input.Mode,
		})
		if err != nil {
			return dto.RecipeOutput{}, err
		}
		diameters = scheduled.Diameters
	}
	spec := drawing.DrawingSpec{
		EntryDiameter: input.EntryDiameter,
		ExitDiameter:  input.ExitDiameter,
		PassCount:     input.PassCount,
		Mode:          drawing.Mode(input.Mode),
	}
	recipe, err := i.svc.Save(ctx, input.Name, input.Date, spec, diameters, input.Notes)
	if err != nil {
		return dto.RecipeOutput{}, err
	}
	return toOutput(recipe), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.RecipeOutput, error) {
	recipes, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeOutput, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, toOutput(recipe))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.RecipeDetailOutput, error) {
	recipe, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.RecipeDetailOutput{}, err
	}
	detail := dto.RecipeDetailOutput{
		ID:            recipe.ID,
		Name:          recipe.Name,
		Date:          recipe.Date,
		EntryDiameter: recipe.EntryDiameter,
		ExitDiameter:  recipe.ExitDiameter,
		PassCount:     recipe.PassCount,
		Mode:          string(recipe.Mode),
		Diameters:     recipe.Diameters,
		Notes:         recipe.Notes,
		NotePath:      recipe.NotePath,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
	if i.drawing != nil {
		evaluated, err := i.drawing.Evaluate(ctx, drawingdto.EvaluateInput{
			EntryDiameter: recipe.EntryDiameter,
			Mode:          string(recipe.Mode),
			Diameters:     recipe.Diameters,
		})
		if err != nil {
			return dto.RecipeDetailOutput{}, err
		}
		for _, p := range evaluated.Passes {
			detail.Passes = append(detail.Passes, dto.PassOutput{
				Pass:             p.Pass,
				Diameter:         p.Diameter,
				ReductionPercent: p.ReductionPercent,
				Status:           p.Status,
			})
		}
	}
	return detail, nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func toOutput(recipe domain.Recipe) dto.RecipeOutput {
	return dto.RecipeOutput{
		ID:            recipe.ID,
		Name:          recipe.Name,
		Date:          recipe.Date,
		EntryDiameter: recipe.EntryDiameter,
		ExitDiameter:  recipe.ExitDiameter,
		PassCount:     recipe.PassCount,
		Mode:          string(recipe.Mode),
		NotePath:      recipe.NotePath,
	}
}
