package trips

import "testing"

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(catalog))
	}

	wantOrder := []string{"earth-moon", "earth-mars", "earth-jupiter", "earth-saturn"}
	for i, id := range wantOrder {
		if catalog[i].ID != id {
			t.Fatalf("catalog[%d] = %s, want %s", i, catalog[i].ID, id)
		}
	}

	// Mutating the returned slice must not touch the catalog.
	catalog[0].DistanceKm = 1
	if fresh := Catalog(); fresh[0].DistanceKm != 384_400 {
		t.Fatal("catalog mutated through returned copy")
	}
}

func TestByID(t *testing.T) {
	moon, ok := ByID("earth-moon")
	if !ok {
		t.Fatal("earth-moon not found")
	}
	if moon.DurationSeconds != 25*60 || moon.DistanceKm != 384_400 {
		t.Fatalf("earth-moon = %+v", moon)
	}
	if moon.Name() != "Earth → Moon" {
		t.Fatalf("name = %q", moon.Name())
	}

	if _, ok := ByID("earth-pluto"); ok {
		t.Fatal("unknown trip should not resolve")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{25 * 60, "25min"},
		{45 * 60, "45min"},
		{80 * 60, "1h 20min"},
		{120 * 60, "2h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   int64
		want string
	}{
		{500, "500 km"},
		{384_400, "384K km"},
		{225_000_000, "225.0M km"},
		{1_200_000_000, "1200.0M km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%d) = %q, want %q", tt.km, got, tt.want)
		}
	}
}
