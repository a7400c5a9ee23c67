// Package trips holds the fixed catalog of focus-session trips. Each trip
// binds a session duration to a simulated travel distance; the catalog is
// ordered, finite and never changes at runtime.
package trips

import "fmt"

// Trip is an immutable catalog entry.
type Trip struct {
	ID              string `json:"id"`
	From            string `json:"from"`
	To              string `json:"to"`
	DurationSeconds int    `json:"duration_seconds"`
	DistanceKm      int64  `json:"distance_km"`
	Color           string `json:"color"`
	Description     string `json:"description"`
}

// Name returns the display name used on persisted session rows.
func (t Trip) Name() string {
	return fmt.Sprintf("%s → %s", t.From, t.To)
}

var catalog = []Trip{
	{
		ID:              "earth-moon",
		From:            "Earth",
		To:              "Moon",
		DurationSeconds: 25 * 60,
		DistanceKm:      384_400,
		Color:           "#9E9E9E",
		Description:     "Quick sprint session",
	},
	{
		ID:              "earth-mars",
		From:            "Earth",
		To:              "Mars",
		DurationSeconds: 45 * 60,
		DistanceKm:      225_000_000,
		Color:           "#FF6B6B",
		Description:     "Standard focus session",
	},
	{
		ID:              "earth-jupiter",
		From:            "Earth",
		To:              "Jupiter",
		DurationSeconds: 80 * 60,
		DistanceKm:      628_000_000,
		Color:           "#FFA726",
		Description:     "Deep work session",
	},
	{
		ID:              "earth-saturn",
		From:            "Earth",
		To:              "Saturn",
		DurationSeconds: 120 * 60,
		DistanceKm:      1_200_000_000,
		Color:           "#FFD54F",
		Description:     "Extended focus session",
	},
}

// Catalog returns the ordered trip catalog. The returned slice is a copy;
// callers cannot mutate the catalog through it.
func Catalog() []Trip {
	out := make([]Trip, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a trip by its identifier.
func ByID(id string) (Trip, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Trip{}, false
}

// FormatDuration renders a duration in seconds as "25min", "1h20min" or "2h".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dmin", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dmin", minutes)
}

// FormatDistance renders a distance as "384400 km", "384K km" or "225.0M km".
func FormatDistance(km int64) string {
	switch {
	case km >= 1_000_000:
		return fmt.Sprintf("%.1fM km", float64(km)/1_000_000)
	case km >= 1_000:
		return fmt.Sprintf("%dK km", (km+500)/1_000)
	default:
		return fmt.Sprintf("%d km", km)
	}
}
