package models

// ShortfallRow reports the missing hours for one (course, grade) pair.
type ShortfallRow struct {
	CourseID int `json:"course_id"`
	Grade    int `json:"grade"`
	Required int `json:"required"`
	Placed   int `json:"placed"`
	Missing  int `json:"missing"`
}

// CompletionStats summarises how much of the hour quota the visible grid
// already covers.
type CompletionStats struct {
	RequiredTotal   int            `json:"required_total"`
	PlacedTotal     int            `json:"placed_total"`
	CompletionRatio float64        `json:"completion_ratio"`
	Shortfalls      []ShortfallRow `json:"shortfalls"`
}
