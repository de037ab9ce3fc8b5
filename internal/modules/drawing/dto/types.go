package dto

import "time"

type ScheduleInput struct {
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
}

type EditDieInput struct {
	EntryDiameter float64
	Mode          string
	Diameters     []float64
	Pass          int
	Diameter      float64
}

type EvaluateInput struct {
	EntryDiameter float64
	Mode          string
	Diameters     []float64
}

type PassOutput struct {
	Pass             int
	Diameter         float64
	ReductionPercent float64
	Status           string
}

type ScheduleOutput struct {
	EntryDiameter  float64
	ExitDiameter   float64
	PassCount      int
	Mode           string
	StartReduction float64
	Diameters      []float64
	Passes         []PassOutput
}

type DraftInput struct {
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
	Diameters     []float64
}

type DraftOutput struct {
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          string
	Diameters     []float64
	SavedAt       time.Time
}
