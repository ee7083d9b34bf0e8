package transform

import (
	"errors"
	"math"
	"testing"
)

func TestToHorizontal_KnownGeometry(t *testing.T) {
	tests := []struct {
		name    string
		haDeg   float64
		decDeg  float64
		latDeg  float64
		wantAlt float64
		wantAz  float64
	}{
		{
			// Object on the celestial equator crossing the meridian for an
			// equatorial observer sits at the zenith.
			name:  "zenith at equator",
			haDeg: 0, decDeg: 0, latDeg: 0,
			wantAlt: 90, wantAz: 0,
		},
		{
			// Six hours past the meridian it sits on the western horizon.
			name:  "setting west at equator",
			haDeg: 90, decDeg: 0, latDeg: 0,
			wantAlt: 0, wantAz: 270,
		},
		{
			// Six hours before the meridian it sits on the eastern horizon.
			name:  "rising east at equator",
			haDeg: 270, decDeg: 0, latDeg: 0,
			wantAlt: 0, wantAz: 90,
		},
		{
			// From 45°N an equatorial object culminates due south at alt 45°.
			name:  "culmination mid-latitude",
			haDeg: 0, decDeg: 0, latDeg: 45,
			wantAlt: 45, wantAz: 180,
		},
		{
			// Celestial pole from 45°N: due north at the observer's latitude.
			name:  "north celestial pole",
			haDeg: 123.4, decDeg: 90, latDeg: 45,
			wantAlt: 45, wantAz: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := NewObserver(tt.latDeg, 0)
			got, err := ToHorizontal(tt.haDeg, tt.decDeg, obs)
			if err != nil {
				t.Fatalf("ToHorizontal: %v", err)
			}
			if math.Abs(got.AltitudeDeg-tt.wantAlt) > 1e-6 {
				t.Errorf("altitude = %.8f, want %.8f", got.AltitudeDeg, tt.wantAlt)
			}
			// Azimuth is unconstrained when the object is at the zenith.
			if math.Abs(got.AltitudeDeg-90) < 1e-6 {
				return
			}
			azDiff := math.Abs(got.AzimuthDeg - tt.wantAz)
			if azDiff > 180 {
				azDiff = 360 - azDiff
			}
			if azDiff > 1e-6 {
				t.Errorf("azimuth = %.8f, want %.8f", got.AzimuthDeg, tt.wantAz)
			}
		})
	}
}

func TestToHorizontal_ZenithAzimuthZero(t *testing.T) {
	obs := NewObserver(0, 0)
	got, err := ToHorizontal(0, 0, obs)
	if err != nil {
		t.Fatalf("ToHorizontal: %v", err)
	}
	if got.AzimuthDeg != 0 {
		t.Errorf("zenith azimuth = %v, want 0", got.AzimuthDeg)
	}

	// Nadir gets the same convention.
	got, err = ToHorizontal(180, 0, obs)
	if err != nil {
		t.Fatalf("ToHorizontal: %v", err)
	}
	if math.Abs(got.AltitudeDeg+90) > 1e-6 {
		t.Errorf("nadir altitude = %v, want -90", got.AltitudeDeg)
	}
	if got.AzimuthDeg != 0 {
		t.Errorf("nadir azimuth = %v, want 0", got.AzimuthDeg)
	}
}

func TestToHorizontal_PolarObserver(t *testing.T) {
	for _, lat := range []float64{90, -90} {
		obs := NewObserver(lat, 0)
		_, err := ToHorizontal(30, 20, obs)
		if !errors.Is(err, ErrPolarObserver) {
			t.Errorf("lat=%v: err = %v, want ErrPolarObserver", lat, err)
		}
	}
}

func TestToHorizontal_Ranges(t *testing.T) {
	obs := NewObserver(51.4778, -0.0015)
	for ha := 0.0; ha < 360; ha += 7.3 {
		for dec := -85.0; dec <= 85; dec += 13.1 {
			got, err := ToHorizontal(ha, dec, obs)
			if err != nil {
				t.Fatalf("ToHorizontal(ha=%.1f dec=%.1f): %v", ha, dec, err)
			}
			if got.AltitudeDeg < -90 || got.AltitudeDeg > 90 {
				t.Errorf("ha=%.1f dec=%.1f: altitude %.4f out of [-90, 90]", ha, dec, got.AltitudeDeg)
			}
			if got.AzimuthDeg < 0 || got.AzimuthDeg >= 360 {
				t.Errorf("ha=%.1f dec=%.1f: azimuth %.4f out of [0, 360)", ha, dec, got.AzimuthDeg)
			}
		}
	}
}

// TestToHorizontal_EastWestSymmetry checks that mirroring the hour angle
// mirrors the azimuth about the meridian while leaving altitude unchanged.
func TestToHorizontal_EastWestSymmetry(t *testing.T) {
	obs := NewObserver(34.0, 0)
	for _, ha := range []float64{15, 47.5, 110} {
		west, err := ToHorizontal(ha, 20, obs)
		if err != nil {
			t.Fatalf("west: %v", err)
		}
		east, err := ToHorizontal(360-ha, 20, obs)
		if err != nil {
			t.Fatalf("east: %v", err)
		}
		if math.Abs(west.AltitudeDeg-east.AltitudeDeg) > 1e-9 {
			t.Errorf("ha=%.1f: altitudes differ: %.9f vs %.9f", ha, west.AltitudeDeg, east.AltitudeDeg)
		}
		if math.Abs(west.AzimuthDeg+east.AzimuthDeg-360) > 1e-9 {
			t.Errorf("ha=%.1f: azimuths not mirrored: %.9f vs %.9f", ha, west.AzimuthDeg, east.AzimuthDeg)
		}
	}
}
