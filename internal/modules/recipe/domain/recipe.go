package domain

import (
	"fmt"
	"strings"
	"time"

	drawing "trefila/internal/modules/drawing/domain"
	apperrors "trefila/internal/platform/errors"
)

const (
	ManagedPassesStart = "<!-- trefila:passes:start -->"
	ManagedPassesEnd   = "<!-- trefila:passes:end -->"
	SchemaVersion      = 1
	DateLayout         = "2006-01-02"
)

// Recipe is a named, dated snapshot of a drawing run and its die sequence.
type Recipe struct {
	ID            string
	Name          string
	Slug          string
	Date          time.Time
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          drawing.Mode
	Diameters     []float64
	Notes         string
	NotePath      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Slug) == "" {
		return fmt.Errorf("%w: slug is required", apperrors.ErrInvalidInput)
	}
	if err := r.Spec().Validate(); err != nil {
		return err
	}
	if err := r.Mode.Validate(); err != nil {
		return err
	}
	if len(r.Diameters) != r.PassCount {
		return fmt.Errorf("%w: recipe has %d dies for %d passes", apperrors.ErrInvalidInput, len(r.Diameters), r.PassCount)
	}
	return nil
}

func (r Recipe) Spec() drawing.DrawingSpec {
	return drawing.DrawingSpec{
		EntryDiameter: r.EntryDiameter,
		ExitDiameter:  r.ExitDiameter,
		PassCount:     r.PassCount,
		Mode:          r.Mode,
	}
}

// PassTable renders the die sequence as a markdown table for the recipe note.
func (r Recipe) PassTable() string {
	var sb strings.Builder
	sb.WriteString("| pass | die (mm) | reduction (%) | status |\n")
	sb.WriteString("|-----:|---------:|--------------:|:-------|\n")
	reductions := drawing.Classify(drawing.ComputeReductions(r.EntryDiameter, r.Diameters), r.Mode)
	for i, red := range reductions {
		fmt.Fprintf(&sb, "| %d | %.3f | %.2f | %s |\n", red.Pass, r.Diameters[i], red.ReductionPercent, red.Status)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

type RecipeDocument struct {
	Recipe Recipe
	Body   string
}
