package store

// Catalog returns the built-in exercise entries seeded into every database.
// IDs match the names resolved by the exercise registry.
func Catalog() []Exercise {
	return []Exercise{
		{
			ID:          "bicep_curl",
			Title:       "Bicep Curl",
			MuscleGroup: "biceps",
			Difficulty:  "Beginner",
			Equipment:   []string{"dumbbells", "barbell", "resistance-band"},
			KeyPoints: []string{
				"Keep elbows close to body",
				"Control the descent",
				"Full range of motion",
				"Don't swing or use momentum",
			},
			CommonMistakes: []string{
				"Moving elbows forward",
				"Using momentum",
				"Partial range of motion",
				"Arching back",
			},
			Implemented: true,
		},
		{
			ID:          "pushup",
			Title:       "Push Up",
			MuscleGroup: "chest",
			Difficulty:  "Beginner",
			Equipment:   []string{"bodyweight"},
			KeyPoints: []string{
				"Keep your body in a straight line",
				"Lower until chest nearly touches floor",
				"Push explosively back up",
			},
			CommonMistakes: []string{
				"Sagging hips",
				"Flaring elbows",
				"Partial range of motion",
			},
			Implemented: true,
		},
		{
			ID:          "barbell_squat",
			Title:       "Barbell Squat",
			MuscleGroup: "quads",
			Difficulty:  "Intermediate",
			Equipment:   []string{"barbell", "squat-rack"},
			KeyPoints:   []string{"Feet shoulder-width", "Knees track over toes", "Go deep"},
			CommonMistakes: []string{
				"Knees caving in",
				"Heels lifting",
				"Rounding the lower back",
			},
		},
		{
			ID:             "deadlift",
			Title:          "Deadlift",
			MuscleGroup:    "back",
			Difficulty:     "Advanced",
			Equipment:      []string{"barbell"},
			KeyPoints:      []string{"Bar close to shins", "Neutral spine", "Drive through heels"},
			CommonMistakes: []string{"Rounded back", "Bar drifting forward", "Hips rising first"},
		},
		{
			ID:             "chest_press",
			Title:          "Chest Press",
			MuscleGroup:    "chest",
			Difficulty:     "Intermediate",
			Equipment:      []string{"barbell", "dumbbells", "bench"},
			KeyPoints:      []string{"Keep feet flat on floor", "Lower bar to mid-chest", "Drive through your chest"},
			CommonMistakes: []string{"Bouncing off the chest", "Flaring elbows", "Lifting hips off the bench"},
		},
		{
			ID:          "shoulder_press",
			Title:       "Shoulder Press",
			MuscleGroup: "shoulders",
			Difficulty:  "Intermediate",
			Equipment:   []string{"dumbbells", "barbell"},
			KeyPoints: []string{
				"Start with weights at shoulder height",
				"Press straight overhead until arms are locked",
				"Keep core engaged throughout",
				"Lower with control to starting position",
				"Don't arch your back",
			},
			CommonMistakes: []string{
				"Arching back excessively",
				"Not pressing fully overhead",
				"Elbows too far forward",
				"Using momentum",
				"Partial range of motion",
			},
		},
		{
			ID:             "pull_up",
			Title:          "Pull Up",
			MuscleGroup:    "back",
			Difficulty:     "Intermediate",
			Equipment:      []string{"pull-up-bar"},
			KeyPoints:      []string{"Full hang at bottom", "Pull with lats, not arms", "Chest to bar"},
			CommonMistakes: []string{"Kipping", "Partial range of motion", "Shrugging shoulders"},
		},
	}
}
