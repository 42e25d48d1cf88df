package models

// Weekdays lists heatmap row labels, Monday first.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// HeatmapCell is one (weekday, hour) aggregate. Weekday is 0 for Monday.
type HeatmapCell struct {
	Weekday int      `json:"weekday"`
	Hour    int      `json:"hour"`
	Average *float64 `json:"avg_value"`
	Count   int      `json:"count"`
}

// Heatmap is the weekday x hour grid served to charting clients.
type Heatmap struct {
	Hours  []int        `json:"hours"`
	Days   []string     `json:"days"`
	Values [][]*float64 `json:"values"`
	Counts [][]int      `json:"counts"`
}
