package models

// MuscleGroup is static reference data describing one trackable muscle group.
type MuscleGroup struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Priority int    `json:"priority"`
}

// Exercise is static reference data for a known exercise.
type Exercise struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Equipment string `json:"equipment,omitempty"`
}

// ExerciseMuscleMapping assigns a volume-contribution weight in (0, 1] to an
// (exercise, muscle group) pair. A compound lift carries multiple mappings;
// weights are independent and do not need to sum to 1.
type ExerciseMuscleMapping struct {
	ExerciseID    int     `json:"exercise_id"`
	MuscleGroupID int     `json:"muscle_group_id"`
	Contribution  float64 `json:"contribution"`
}
