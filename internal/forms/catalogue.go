package forms

import "slices"

var Categories = []string{"Push", "Pull", "Legs", "Full Body"}

var exercisesByCategory = map[string][]string{
	"Push": {
		"Flat Smith Press",
		"Flat Bench Press",
		"Machine Chest Press",
		"Chest Fly",
		"Shoulder Press",
		"Tricep Pulldown",
		"Overhead Tricep Extension",
	},
	"Pull": {
		"Lat Pulldown",
		"Pull-ups",
		"Iso Lat Low Row",
		"Row",
		"Row (Single Arm)",
		"Rear Delt Fly",
		"Bicep Curl",
		"Bicep Curl (Cable)",
		"Hammer Curl",
	},
	"Legs": {
		"Squat",
		"Leg Press",
		"Leg Extension",
		"Deadlift",
	},
	"Full Body": {
		"Trap Bar Deadlift",
		"Clean & Press",
		"Plyo Push-up",
		"Landmine Rotation",
		"Pull-ups",
	},
}

func IsCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// Exercises lists the exercises of a category in display order. Unknown
// categories have none.
func Exercises(category string) []string {
	return slices.Clone(exercisesByCategory[category])
}
