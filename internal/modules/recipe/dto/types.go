package dto

import "time"

type SaveRecipeInput struct {
	Name          string
	Date          time.Time
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
	// Diameters may be empty, in which case the schedule is computed.
	Diameters []float64
	Notes     string
}

type ReindexInput struct{}

type RecipeOutput struct {
	ID            string
	Name          string
	Date          time.Time
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
	NotePath      string
}

type PassOutput struct {
	Pass             int
	Diameter         float64
	ReductionPercent float64
	Status           string
}

type RecipeDetailOutput struct {
	ID            string
	Name          string
	Date          time.Time
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
	Diameters     []float64
	Passes        []PassOutput
	Notes         string
	NotePath      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
