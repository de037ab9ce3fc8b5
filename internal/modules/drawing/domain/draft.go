package domain

import "time"

// Draft is the working state of the scheduler screen, including dies the
// operator edited by hand.
type Draft struct {
	EntryDiameter float64   `json:"entry_diameter"`
	ExitDiameter  float64   `json:"exit_diameter"`
	PassCount     int       `json:"pass_count"`
	Mode          Mode      `json:"mode"`
	Diameters     []float64 `json:"diameters"`
	SavedAt       time.Time `json:"saved_at"`
}

// Spec returns the drawing spec the draft was computed from.
func (d Draft) Spec() DrawingSpec {
	return DrawingSpec{EntryDiameter: d.EntryDiameter, ExitDiameter: d.ExitDiameter, PassCount: d.PassCount, Mode: d.Mode}
}
