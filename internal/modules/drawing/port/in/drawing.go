package in

import (
	"context"

	"trefila/internal/modules/drawing/dto"
)

type Usecase interface {
	Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error)
	EditDie(ctx context.Context, input dto.EditDieInput) (dto.ScheduleOutput, error)
	Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.ScheduleOutput, error)
	SaveDraft(ctx context.Context, input dto.DraftInput) (dto.DraftOutput, error)
	LoadDraft(ctx context.Context) (dto.DraftOutput, error)
	ClearDraft(ctx context.Context) error
}
