package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trefila/internal/modules/drawing/domain"
	drawingout "trefila/internal/modules/drawing/port/out"
	"trefila/internal/platform/clock"
	apperrors "trefila/internal/platform/errors"
)

type DrawingService struct {
	clock  clock.Clock
	drafts drawingout.DraftStore
	logger *zap.Logger
}

func NewDrawingService(clock clock.Clock, drafts drawingout.DraftStore, logger *zap.Logger) *DrawingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DrawingService{clock: clock, drafts: drafts, logger: logger.Named("drawing")}
}

// Compute schedules spec and classifies every pass.
func (s *DrawingService) Compute(_ context.Context, spec domain.DrawingSpec) (domain.DieSchedule, []domain.PassReduction, error) {
	schedule, err := domain.Schedule(spec)
	if err != nil {
		s.logger.Debug("schedule rejected", zap.Error(err),
			zap.Float64("entry", spec.EntryDiameter),
			zap.Float64("exit", spec.ExitDiameter),
			zap.Int("passes", spec.PassCount),
			zap.String("mode", string(spec.Mode)))
		return domain.DieSchedule{}, nil, err
	}
	reductions := domain.Classify(domain.ComputeReductions(spec.EntryDiameter, schedule.Diameters), spec.Mode)
	s.logger.Debug("schedule computed",
		zap.Float64("entry", spec.EntryDiameter),
		zap.Float64("exit", spec.ExitDiameter),
		zap.Int("passes", spec.PassCount),
		zap.String("mode", string(spec.Mode)),
		zap.Float64s("diameters", schedule.Diameters))
	return schedule, reductions, nil
}

// EditDie replaces one die and re-derives the reductions of the new sequence.
func (s *DrawingService) EditDie(_ context.Context, entry float64, mode domain.Mode, diameters []float64, pass int, value float64) ([]float64, []domain.PassReduction, error) {
	if err := mode.Validate(); err != nil {
		return nil, nil, err
	}
	edited, err := domain.ReplaceDiameter(diameters, pass, value)
	if err != nil {
		return nil, nil, err
	}
	reductions := domain.Classify(domain.ComputeReductions(entry, edited), mode)
	for _, r := range reductions {
		if r.Status == domain.StatusCritical {
			s.logger.Warn("manual die exceeds pass limit", zap.Int("pass", r.Pass), zap.Float64("reduction", r.ReductionPercent))
		}
	}
	return edited, reductions, nil
}

// Evaluate classifies an arbitrary die sequence, e.g. one loaded from a recipe.
func (s *DrawingService) Evaluate(_ context.Context, entry float64, mode domain.Mode, diameters []float64) ([]domain.PassReduction, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	return domain.Classify(domain.ComputeReductions(entry, diameters), mode), nil
}

// SaveDraft stamps the draft with the current time and stores it.
func (s *DrawingService) SaveDraft(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	if err := draft.Mode.Validate(); err != nil {
		return domain.Draft{}, err
	}
	if draft.PassCount <= 0 {
		return domain.Draft{}, fmt.Errorf("%w: draft pass count must be positive", apperrors.ErrInvalidInput)
	}
	draft.SavedAt = s.clock.Now()
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return domain.Draft{}, err
	}
	return draft, nil
}

// LoadDraft returns apperrors.ErrNotFound when no draft was saved.
func (s *DrawingService) LoadDraft(ctx context.Context) (domain.Draft, error) {
	return s.drafts.LoadDraft(ctx)
}

// ClearDraft removes the stored draft.
func (s *DrawingService) ClearDraft(ctx context.Context) error {
	return s.drafts.ClearDraft(ctx)
}
