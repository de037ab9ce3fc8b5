package domain_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trefila/internal/modules/drawing/domain"
	apperrors "trefila/internal/platform/errors"
)

var realisticSpecs = []domain.DrawingSpec{
	{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 4},
	{EntryDiameter: 6.5, ExitDiameter: 2.5, PassCount: 7},
	{EntryDiameter: 5.5, ExitDiameter: 2.0, PassCount: 8},
	{EntryDiameter: 12, ExitDiameter: 5.5, PassCount: 5},
	{EntryDiameter: 8, ExitDiameter: 4, PassCount: 4},
	{EntryDiameter: 5.5, ExitDiameter: 4.5, PassCount: 2},
	{EntryDiameter: 5.5, ExitDiameter: 4.5, PassCount: 3},
	{EntryDiameter: 7, ExitDiameter: 6.2, PassCount: 1},
}

func assertScheduleShape(t *testing.T, spec domain.DrawingSpec, schedule domain.DieSchedule) {
	t.Helper()
	require.Len(t, schedule.Diameters, spec.PassCount)
	require.Equal(t, spec.ExitDiameter, schedule.Diameters[len(schedule.Diameters)-1])
	prev := spec.EntryDiameter
	for i, d := range schedule.Diameters {
		require.Less(t, d, prev, "pass %d must reduce the diameter", i+1)
		prev = d
	}
}

func TestSchedulersProduceExactFinalAndDecreasingDiameters(t *testing.T) {
	t.Parallel()
	for _, spec := range realisticSpecs {
		spec := spec
		t.Run(fmt.Sprintf("%.1f-%.1f-%d", spec.EntryDiameter, spec.ExitDiameter, spec.PassCount), func(t *testing.T) {
			t.Parallel()
			progressive, err := domain.ScheduleProgressive(spec)
			require.NoError(t, err)
			assertScheduleShape(t, spec, progressive)

			uniform, err := domain.ScheduleUniform(spec)
			require.NoError(t, err)
			assertScheduleShape(t, spec, uniform)
		})
	}
}

func TestScheduleUniformExample(t *testing.T) {
	t.Parallel()
	spec := domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 4, Mode: domain.ModeUniform}
	assert.InDelta(t, 0.23723, domain.UniformReduction(spec), 1e-5)

	schedule, err := domain.Schedule(spec)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{4.804, 4.195, 3.664, 3.2}, schedule.Diameters); diff != "" {
		t.Fatalf("unexpected diameters (-want +got):\n%s", diff)
	}
}

func TestScheduleUniformReductionsAreEqual(t *testing.T) {
	t.Parallel()
	for _, spec := range realisticSpecs[:5] {
		schedule, err := domain.ScheduleUniform(spec)
		require.NoError(t, err)
		want := domain.UniformReduction(spec) * 100
		for _, r := range domain.ComputeReductions(spec.EntryDiameter, schedule.Diameters) {
			// three-decimal dies shift each reduction by a few hundredths of a percent
			assert.InDelta(t, want, r.ReductionPercent, 0.1, "spec %+v pass %d", spec, r.Pass)
		}
	}
}

func TestScheduleProgressiveExample(t *testing.T) {
	t.Parallel()
	spec := domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 4, Mode: domain.ModeProgressive}
	schedule, err := domain.Schedule(spec)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{4.627, 3.995, 3.534, 3.2}, schedule.Diameters); diff != "" {
		t.Fatalf("unexpected diameters (-want +got):\n%s", diff)
	}
	reductions := domain.ComputeReductions(spec.EntryDiameter, schedule.Diameters)
	assert.InDelta(t, 18.0, reductions[3].ReductionPercent, 0.1)
	assert.Greater(t, reductions[0].ReductionPercent, 18.0)
	assert.InDelta(t, 0.2922, domain.ProgressiveStartReduction(spec), 1e-3)
}

func TestScheduleProgressiveReductionsDecrease(t *testing.T) {
	t.Parallel()
	// all of these need more than a flat 18% per pass
	for _, spec := range realisticSpecs[:5] {
		schedule, err := domain.ScheduleProgressive(spec)
		require.NoError(t, err)
		reductions := domain.ComputeReductions(spec.EntryDiameter, schedule.Diameters)
		for i := 1; i < len(reductions); i++ {
			assert.Less(t, reductions[i].ReductionPercent, reductions[i-1].ReductionPercent, "spec %+v pass %d", spec, i+1)
		}
		assert.InDelta(t, domain.TargetLastReduction*100, reductions[len(reductions)-1].ReductionPercent, 0.1)
	}
}

func TestScheduleProgressiveLightRunSolvesBelowTarget(t *testing.T) {
	t.Parallel()
	spec := domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 4.5, PassCount: 2}
	rStart := domain.ProgressiveStartReduction(spec)
	assert.Greater(t, rStart, domain.TargetLastReduction)

	light := domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 4.5, PassCount: 3}
	assert.Less(t, domain.ProgressiveStartReduction(light), domain.TargetLastReduction)
	schedule, err := domain.ScheduleProgressive(light)
	require.NoError(t, err)
	assertScheduleShape(t, light, schedule)
}

func TestScheduleProgressiveRejectsUnreachableExit(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.DrawingSpec{
		// even 90% on the first pass leaves too much wire
		"too heavy": {EntryDiameter: 5.5, ExitDiameter: 1.0, PassCount: 2, Mode: domain.ModeProgressive},
		// a finishing pass of 18% already removes more than asked
		"too light": {EntryDiameter: 5.5, ExitDiameter: 5.0, PassCount: 3, Mode: domain.ModeProgressive},
	}
	for name, spec := range cases {
		schedule, err := domain.Schedule(spec)
		require.ErrorIs(t, err, domain.ErrInfeasibleSchedule, name)
		assert.Empty(t, schedule.Diameters, name)
	}

	// the uniform policy has no bracket and still reaches both
	for name, spec := range cases {
		spec.Mode = domain.ModeUniform
		_, err := domain.Schedule(spec)
		require.NoError(t, err, name)
	}
}

func TestSinglePassBypassesInterpolation(t *testing.T) {
	t.Parallel()
	for _, mode := range []domain.Mode{domain.ModeProgressive, domain.ModeUniform} {
		schedule, err := domain.Schedule(domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 1, Mode: mode})
		require.NoError(t, err)
		assert.Equal(t, []float64{3.2}, schedule.Diameters)
	}
}

func TestSchedulersAreIdempotent(t *testing.T) {
	t.Parallel()
	for _, spec := range realisticSpecs {
		a, errA := domain.ScheduleProgressive(spec)
		b, errB := domain.ScheduleProgressive(spec)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b)

		c, errC := domain.ScheduleUniform(spec)
		d, errD := domain.ScheduleUniform(spec)
		require.NoError(t, errC)
		require.NoError(t, errD)
		assert.Equal(t, c, d)
	}
}

func TestInvalidSpecIsRejected(t *testing.T) {
	t.Parallel()
	cases := []domain.DrawingSpec{
		{EntryDiameter: 3.0, ExitDiameter: 5.0, PassCount: 4},
		{EntryDiameter: 5.0, ExitDiameter: 5.0, PassCount: 4},
		{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 0},
		{EntryDiameter: 5.5, ExitDiameter: -1, PassCount: 3},
		{EntryDiameter: math.NaN(), ExitDiameter: 3.2, PassCount: 3},
		{EntryDiameter: math.Inf(1), ExitDiameter: 3.2, PassCount: 3},
	}
	for _, spec := range cases {
		for _, mode := range []domain.Mode{domain.ModeProgressive, domain.ModeUniform} {
			spec.Mode = mode
			_, err := domain.Schedule(spec)
			require.Error(t, err, "spec %+v", spec)
			assert.True(t, errors.Is(err, domain.ErrInvalidSpec))
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		}
	}
}

func TestScheduleRejectsUnknownMode(t *testing.T) {
	t.Parallel()
	_, err := domain.Schedule(domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 3.2, PassCount: 4, Mode: "random"})
	require.ErrorIs(t, err, domain.ErrInvalidSpec)
}

func TestScheduleReportsRoundingCollapse(t *testing.T) {
	t.Parallel()
	// dies closer than the rounding step collapse onto the same value
	_, err := domain.ScheduleUniform(domain.DrawingSpec{EntryDiameter: 5.5, ExitDiameter: 5.497, PassCount: 10})
	require.ErrorIs(t, err, domain.ErrInfeasibleSchedule)
}

func TestRound(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4.804, domain.Round(4.80354, 3))
	assert.Equal(t, 2.5, domain.Round(2.4996, 3))
	assert.Equal(t, 3.0, domain.Round(2.5, 0))
}
