package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Run("zero for identical coordinates", func(t *testing.T) {
		if d := Distance(-34.60, -58.38, -34.60, -58.38); d != 0 {
			t.Fatalf("expected 0, got %f", d)
		}
	})

	t.Run("buenos aires to montevideo", func(t *testing.T) {
		// Obelisco to Plaza Independencia, roughly 205 km.
		d := Distance(-34.6037, -58.3816, -34.9066, -56.1994)
		if math.Abs(d-205) > 5 {
			t.Fatalf("expected ~205 km, got %f", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Distance(-34.60, -58.38, 40.41, -3.70)
		b := Distance(40.41, -3.70, -34.60, -58.38)
		if math.Abs(a-b) > 1e-9 {
			t.Fatalf("expected symmetry, got %f vs %f", a, b)
		}
	})
}

func TestWithinRadius(t *testing.T) {
	// One degree of latitude is about 111.19 km at the equator.
	lat, lon := 0.0, 0.0

	if !WithinRadius(lat, lon, 1, 0, 112) {
		t.Fatalf("expected point inside radius")
	}
	if WithinRadius(lat, lon, 1, 0, 100) {
		t.Fatalf("expected point outside radius")
	}

	// The boundary is inclusive.
	d := Distance(lat, lon, 1, 0)
	if !WithinRadius(lat, lon, 1, 0, d) {
		t.Fatalf("expected boundary distance to be included")
	}
}
