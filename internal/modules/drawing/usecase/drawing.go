package usecase

import (
	"context"

	"trefila/internal/modules/drawing/domain"
	"trefila/internal/modules/drawing/dto"
	drawingin "trefila/internal/modules/drawing/port/in"
	"trefila/internal/modules/drawing/service"
)

type Interactor struct {
	svc *service.DrawingService
}

func NewInteractor(svc *service.DrawingService) drawingin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	spec := domain.DrawingSpec{
		EntryDiameter: input.EntryDiameter,
		ExitDiameter:  input.ExitDiameter,
		PassCount:     input.PassCount,
		Mode:          domain.Mode(input.Mode),
	}
	schedule, reductions, err := i.svc.Compute(ctx, spec)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	out := toOutput(spec.EntryDiameter, spec.Mode, schedule.Diameters, reductions)
	if spec.Mode == domain.ModeProgressive {
		out.StartReduction = domain.ProgressiveStartReduction(spec) * 100
	} else {
		out.StartReduction = domain.UniformReduction(spec) * 100
	}
	return out, nil
}

func (i *Interactor) EditDie(ctx context.Context, input dto.EditDieInput) (dto.ScheduleOutput, error) {
	mode := domain.Mode(input.Mode)
	diameters, reductions, err := i.svc.EditDie(ctx, input.EntryDiameter, mode, input.Diameters, input.Pass, input.Diameter)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return toOutput(input.EntryDiameter, mode, diameters, reductions), nil
}

func (i *Interactor) Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.ScheduleOutput, error) {
	mode := domain.Mode(input.Mode)
	reductions, err := i.svc.Evaluate(ctx, input.EntryDiameter, mode, input.Diameters)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return toOutput(input.EntryDiameter, mode, input.Diameters, reductions), nil
}

func (i *Interactor) SaveDraft(ctx context.Context, input dto.DraftInput) (dto.DraftOutput, error) {
	draft, err := i.svc.SaveDraft(ctx, domain.Draft{
		EntryDiameter: input.EntryDiameter,
		ExitDiameter:  input.ExitDiameter,
		PassCount:     input.PassCount,
		Mode:          domain.Mode(input.Mode),
		Diameters:     input.Diameters,
	})
	if err != nil {
		return dto.DraftOutput{}, err
	}
	return toDraftOutput(draft), nil
}

func (i *Interactor) LoadDraft(ctx context.Context) (dto.DraftOutput, error) {
	draft, err := i.svc.LoadDraft(ctx)
	if err != nil {
		return dto.DraftOutput{}, err
	}
	return toDraftOutput(draft), nil
}

func (i *Interactor) ClearDraft(ctx context.Context) error {
	return i.svc.ClearDraft(ctx)
}

func toOutput(entry float64, mode domain.Mode, diameters []float64, reductions []domain.PassReduction) dto.ScheduleOutput {
	out := dto.ScheduleOutput{
		EntryDiameter: entry,
		PassCount:     len(diameters),
		Mode:          string(mode),
		Diameters:     append([]float64(nil), diameters...),
		Passes:        make([]dto.PassOutput, 0, len(reductions)),
	}
	if len(diameters) > 0 {
		out.ExitDiameter = diameters[len(diameters)-1]
	}
	for idx, r := range reductions {
		out.Passes = append(out.Passes, dto.PassOutput{
			Pass:             r.Pass,
			Diameter:         diameters[idx],
			ReductionPercent: r.ReductionPercent,
			Status:           string(r.Status),
		})
	}
	return out
}

func toDraftOutput(draft domain.Draft) dto.DraftOutput {
	return dto.DraftOutput{
		EntryDiameter: draft.EntryDiameter,
		ExitDiameter:  draft.ExitDiameter,
		PassCount:     draft.PassCount,
		Mode:          string(draft.Mode),
		Diameters:     draft.Diameters,
		SavedAt:       draft.SavedAt,
	}
}
