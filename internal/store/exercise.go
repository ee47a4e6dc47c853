package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Exercise is a catalog entry describing a supported movement.
type Exercise struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	MuscleGroup    string   `json:"muscle_group"`
	Difficulty     string   `json:"difficulty"`
	Equipment      []string `json:"equipment"`
	KeyPoints      []string `json:"key_points"`
	CommonMistakes []string `json:"common_mistakes"`
	Implemented    bool     `json:"implemented"`
}

// ExerciseRepository provides access to the exercise catalog.
type ExerciseRepository struct {
	db *sql.DB
}

// Exercises returns the exercise repository for this store.
func (s *Store) Exercises() *ExerciseRepository {
	return &ExerciseRepository{db: s.db}
}

// Seed inserts the given entries, replacing any stored entry with the same ID.
func (r *ExerciseRepository) Seed(entries []Exercise) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO exercises (id, title, muscle_group, difficulty, equipment, key_points, common_mistakes, implemented)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			muscle_group = excluded.muscle_group,
			difficulty = excluded.difficulty,
			equipment = excluded.equipment,
			key_points = excluded.key_points,
			common_mistakes = excluded.common_mistakes,
			implemented = excluded.implemented`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		equipment, err := encodeList(e.Equipment)
		if err != nil {
			return err
		}
		keyPoints, err := encodeList(e.KeyPoints)
		if err != nil {
			return err
		}
		mistakes, err := encodeList(e.CommonMistakes)
		if err != nil {
			return err
		}

		implemented := 0
		if e.Implemented {
			implemented = 1
		}

		if _, err := stmt.Exec(e.ID, e.Title, e.MuscleGroup, e.Difficulty, equipment, keyPoints, mistakes, implemented); err != nil {
			return fmt.Errorf("seed %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a catalog entry by its canonical ID.
func (r *ExerciseRepository) GetByID(id string) (*Exercise, error) {
	row := r.db.QueryRow(
		`SELECT id, title, muscle_group, difficulty, equipment, key_points, common_mistakes, implemented
		 FROM exercises WHERE id = ?`,
		id,
	)

	e, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves all catalog entries, implemented exercises first.
func (r *ExerciseRepository) List() ([]*Exercise, error) {
	rows, err := r.db.Query(
		`SELECT id, title, muscle_group, difficulty, equipment, key_points, common_mistakes, implemented
		 FROM exercises ORDER BY implemented DESC, title ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []*Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(row scanner) (*Exercise, error) {
	e := &Exercise{}
	var equipment, keyPoints, mistakes string
	var implemented int

	if err := row.Scan(&e.ID, &e.Title, &e.MuscleGroup, &e.Difficulty, &equipment, &keyPoints, &mistakes, &implemented); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(equipment), &e.Equipment); err != nil {
		return nil, fmt.Errorf("decode equipment for %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(keyPoints), &e.KeyPoints); err != nil {
		return nil, fmt.Errorf("decode key points for %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(mistakes), &e.CommonMistakes); err != nil {
		return nil, fmt.Errorf("decode common mistakes for %s: %w", e.ID, err)
	}
	e.Implemented = implemented != 0

	return e, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
