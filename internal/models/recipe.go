package models

// MinInstructionsLen is the minimum number of characters for recipe instructions.
const MinInstructionsLen = 20

type Recipe struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
	UserID            int    `json:"user_id"`
}
