package models

import "time"

// PersonalRecord is the best top weight logged for an exercise.
type PersonalRecord struct {
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
}

// BodyWeightEntry is one entry in the append-only body weight log.
type BodyWeightEntry struct {
	ID     string    `json:"id"`
	Weight float64   `json:"weight"`
	Note   string    `json:"note"`
	Date   time.Time `json:"date"`
}
