package in

import (
	"context"

	"trefila/internal/modules/drawing/dto"
	drawingin "trefila/internal/modules/drawing/port/in"
)

type CLIHandler struct {
	usecase drawingin.Usecase
}

func NewCLIHandler(usecase drawingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Schedule(ctx context.Context, entry, exit float64, passes int, mode string) (dto.ScheduleOutput, error) {
	return h.usecase.Schedule(ctx, dto.ScheduleInput{EntryDiameter: entry, ExitDiameter: exit, PassCount: passes, Mode: mode})
}

func (h CLIHandler) EditDie(ctx context.Context, entry float64, mode string, diameters []float64, pass int, diameter float64) (dto.ScheduleOutput, error) {
	return h.usecase.EditDie(ctx, dto.EditDieInput{EntryDiameter: entry, Mode: mode, Diameters: diameters, Pass: pass, Diameter: diameter})
}

func (h CLIHandler) Evaluate(ctx context.Context, entry float64, mode string, diameters []float64) (dto.ScheduleOutput, error) {
	return h.usecase.Evaluate(ctx, dto.EvaluateInput{EntryDiameter: entry, Mode: mode, Diameters: diameters})
}

func (h CLIHandler) SaveDraft(ctx context.Context, input dto.DraftInput) (dto.DraftOutput, error) {
	return h.usecase.SaveDraft(ctx, input)
}

func (h CLIHandler) LoadDraft(ctx context.Context) (dto.DraftOutput, error) {
	return h.usecase.LoadDraft(ctx)
}

func (h CLIHandler) ClearDraft(ctx context.Context) error {
	return h.usecase.ClearDraft(ctx)
}
