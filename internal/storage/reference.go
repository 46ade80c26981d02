package storage

import (
	"context"
	"fmt"

	"github.com/claude/volumetric/internal/models"
)

// ListMuscleGroups returns the muscle-group catalog ordered by priority.
func (db *DB) ListMuscleGroups(ctx context.Context) ([]models.MuscleGroup, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, category, region, priority
		FROM muscle_groups
		ORDER BY priority ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying muscle groups: %w", err)
	}
	defer rows.Close()

	var result []models.MuscleGroup
	for rows.Next() {
		var mg models.MuscleGroup
		if err := rows.Scan(&mg.ID, &mg.Name, &mg.Category, &mg.Region, &mg.Priority); err != nil {
			return nil, fmt.Errorf("scanning muscle group: %w", err)
		}
		result = append(result, mg)
	}
	return result, rows.Err()
}

// MappingsByExercise returns the muscle-group contribution weights for one
// exercise. An exercise with no mappings contributes to no weekly volume.
func (db *DB) MappingsByExercise(ctx context.Context, exerciseID int) ([]models.ExerciseMuscleMapping, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT exercise_id, muscle_group_id, contribution
		FROM exercise_muscle_mappings
		WHERE exercise_id = $1
	`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseMuscleMapping
	for rows.Next() {
		var m models.ExerciseMuscleMapping
		if err := rows.Scan(&m.ExerciseID, &m.MuscleGroupID, &m.Contribution); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
