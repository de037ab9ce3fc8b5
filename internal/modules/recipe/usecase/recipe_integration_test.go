package usecase_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	drawingout "trefila/internal/modules/drawing/adapter/out"
	drawingservice "trefila/internal/modules/drawing/service"
	drawingusecase "trefila/internal/modules/drawing/usecase"
	recipeout "trefila/internal/modules/recipe/adapter/out"
	"trefila/internal/modules/recipe/dto"
	"trefila/internal/modules/recipe/service"
	"trefila/internal/modules/recipe/usecase"
	"trefila/internal/platform/clock"
	apperrors "trefila/internal/platform/errors"
	"trefila/internal/platform/id"

	_ "modernc.org/sqlite"
)

type sequenceIDs struct{ n int }

func (s *sequenceIDs) New() string {
	s.n++
	return "recipe-" + string(rune('0'+s.n))
}

func TestSaveListGetDeleteAndReindex(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	dbPath := filepath.Join(ws, ".trefila", "trefila.db")
	logger := zaptest.NewLogger(t)

	drawingUC := drawingusecase.NewInteractor(drawingservice.NewDrawingService(
		clock.SystemClock{}, drawingout.NewFileDraftStore(filepath.Join(ws, ".trefila", "draft.json")), logger))
	projector, err := recipeout.NewSQLiteRecipeProjector(dbPath)
	require.NoError(t, err)
	svc := service.NewRecipeService(clock.SystemClock{}, &sequenceIDs{}, recipeout.NewVaultRecipeStore(ws), projector, logger)
	uc := usecase.NewInteractor(svc, drawingUC)
	ctx := context.Background()

	computed, err := uc.Save(ctx, dto.SaveRecipeInput{
		Name:          "Truss chord 5.5-3.2",
		Date:          time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EntryDiameter: 5.5,
		ExitDiameter:  3.2,
		PassCount:     4,
		Mode:          "progressive",
	})
	require.NoError(t, err)
	assert.Equal(t, "recipe-1", computed.ID)
	_, err = os.Stat(computed.NotePath)
	require.NoError(t, err)

	edited, err := uc.Save(ctx, dto.SaveRecipeInput{
		Name:          "Anchor mesh 6.5-4.2",
		EntryDiameter: 6.5,
		ExitDiameter:  4.2,
		PassCount:     3,
		Mode:          "uniform",
		Diameters:     []float64{5.8, 4.9, 4.2},
	})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anchor mesh 6.5-4.2", list[0].Name)
	assert.Equal(t, "Truss chord 5.5-3.2", list[1].Name)

	detail, err := uc.Get(ctx, computed.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{4.627, 3.995, 3.534, 3.2}, detail.Diameters)
	require.Len(t, detail.Passes, 4)
	assert.Equal(t, "critical", detail.Passes[0].Status)
	assert.InDelta(t, 18.0, detail.Passes[3].ReductionPercent, 0.1)
	assert.Equal(t, "2026-10-01", detail.Date.Format("2006-01-02"))

	// same name overwrites and keeps the id
	again, err := uc.Save(ctx, dto.SaveRecipeInput{
		Name:          "Anchor mesh 6.5-4.2",
		EntryDiameter: 6.5,
		ExitDiameter:  4.2,
		PassCount:     3,
		Mode:          "uniform",
		Diameters:     []float64{5.7, 4.9, 4.2},
	})
	require.NoError(t, err)
	assert.Equal(t, edited.ID, again.ID)
	list, err = uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, uc.Delete(ctx, computed.ID))
	_, err = uc.Get(ctx, computed.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, uc.Reindex(ctx, dto.ReindexInput{}))
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM recipe_passes`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSaveRejectsInvalidRecipes(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	projector, err := recipeout.NewSQLiteRecipeProjector(filepath.Join(ws, "idx.db"))
	require.NoError(t, err)
	svc := service.NewRecipeService(clock.SystemClock{}, id.UUID{}, recipeout.NewVaultRecipeStore(ws), projector, nil)
	uc := usecase.NewInteractor(svc, nil)
	ctx := context.Background()

	_, err = uc.Save(ctx, dto.SaveRecipeInput{Name: "", EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 1, Mode: "uniform", Diameters: []float64{3.2}})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = uc.Save(ctx, dto.SaveRecipeInput{Name: "short", EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 3, Mode: "uniform", Diameters: []float64{3.2}})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = uc.Save(ctx, dto.SaveRecipeInput{Name: "no scheduler", EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 3, Mode: "uniform"})
	require.Error(t, err)

	require.ErrorIs(t, uc.Delete(ctx, ""), apperrors.ErrInvalidInput)
	require.ErrorIs(t, uc.Delete(ctx, "missing"), apperrors.ErrNotFound)

	saved, err := uc.Save(ctx, dto.SaveRecipeInput{Name: "ok", EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 1, Mode: "uniform", Diameters: []float64{3.2}})
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
	detail, err := uc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Passes)
}

func TestSaveDefaultsDateToToday(t *testing.T) {
	t.Parallel()
	ws := t.TempDir()
	projector, err := recipeout.NewSQLiteRecipeProjector(filepath.Join(ws, "idx.db"))
	require.NoError(t, err)
	now := clock.Fixed{At: time.Date(2026, 10, 18, 15, 42, 0, 0, time.UTC)}
	svc := service.NewRecipeService(now, id.UUID{}, recipeout.NewVaultRecipeStore(ws), projector, nil)
	uc := usecase.NewInteractor(svc, nil)
	ctx := context.Background()

	saved, err := uc.Save(ctx, dto.SaveRecipeInput{Name: "undated", EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 1, Mode: "uniform", Diameters: []float64{3.2}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), saved.Date)
}
