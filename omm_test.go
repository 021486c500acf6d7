package meanosc

import (
	"math"
	"testing"
	"time"
)

const issOMMJSON = `[{
	"OBJECT_NAME": "ISS (ZARYA)",
	"OBJECT_ID": "1998-067A",
	"EPOCH": "2025-05-18T08:53:29.535936",
	"MEAN_MOTION": 15.49587957,
	"ECCENTRICITY": 0.0002558,
	"INCLINATION": 51.6369,
	"RA_OF_ASC_NODE": 94.7823,
	"ARG_OF_PERICENTER": 120.7586,
	"MEAN_ANOMALY": 15.784,
	"EPHEMERIS_TYPE": 0,
	"CLASSIFICATION_TYPE": "U",
	"NORAD_CAT_ID": 25544,
	"ELEMENT_SET_NO": 999,
	"REV_AT_EPOCH": 51053,
	"BSTAR": 0.00014567,
	"MEAN_MOTION_DOT": 0.00007749,
	"MEAN_MOTION_DDOT": 0
}]`

func TestParseOMMs(t *testing.T) {
	omms, err := ParseOMMs([]byte(issOMMJSON))
	if err != nil {
		t.Fatalf("Failed to parse OMM JSON: %v", err)
	}
	if len(omms) != 1 {
		t.Fatalf("got %d OMMs, want 1", len(omms))
	}

	o := omms[0]
	if o.ObjectName != "ISS (ZARYA)" {
		t.Errorf("ObjectName = %q, want ISS (ZARYA)", o.ObjectName)
	}
	if o.NoradCatID != 25544 {
		t.Errorf("NoradCatID = %d, want 25544", o.NoradCatID)
	}
	if o.Eccentricity != 0.0002558 {
		t.Errorf("Eccentricity = %.7f, want 0.0002558", o.Eccentricity)
	}
}

func TestOMMEpoch(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-05-18T08:53:29.535936", time.Date(2025, 5, 18, 8, 53, 29, 535936000, time.UTC)},
		{"2025-05-18T08:53:29.535936Z", time.Date(2025, 5, 18, 8, 53, 29, 535936000, time.UTC)},
		{"2025-05-18T08:53:29", time.Date(2025, 5, 18, 8, 53, 29, 0, time.UTC)},
	}
	for _, tt := range tests {
		o := OMM{EpochStr: tt.in}
		got, err := o.Epoch()
		if err != nil {
			t.Fatalf("Epoch(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Epoch(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	bad := OMM{EpochStr: "not-a-date"}
	if _, err := bad.Epoch(); err == nil {
		t.Error("Epoch(not-a-date) succeeded, want error")
	}
}

func TestOMMToTLE(t *testing.T) {
	omms, err := ParseOMMs([]byte(issOMMJSON))
	if err != nil {
		t.Fatalf("Failed to parse OMM JSON: %v", err)
	}

	tle, err := omms[0].ToTLE()
	if err != nil {
		t.Fatalf("ToTLE: %v", err)
	}

	if tle.SatelliteNumber != 25544 {
		t.Errorf("SatelliteNumber = %d, want 25544", tle.SatelliteNumber)
	}
	if tle.International != "98067A" {
		t.Errorf("International = %q, want 98067A", tle.International)
	}
	if tle.EpochYear != 2025 {
		t.Errorf("EpochYear = %d, want 2025", tle.EpochYear)
	}
	if math.Abs(tle.EpochDay-138.37048074) > 1e-7 {
		t.Errorf("EpochDay = %.8f, want 138.37048074", tle.EpochDay)
	}
	if tle.Eccentricity != 0.0002558 {
		t.Errorf("Eccentricity = %.7f, want 0.0002558", tle.Eccentricity)
	}
	if tle.MeanMotion != 15.49587957 {
		t.Errorf("MeanMotion = %.8f, want 15.49587957", tle.MeanMotion)
	}
}

func TestOMMToTLEValidation(t *testing.T) {
	o := OMM{
		ObjectID:     "1998-067A",
		EpochStr:     "2025-05-18T08:53:29Z",
		Eccentricity: 1.2,
		MeanMotion:   15.5,
	}
	if _, err := o.ToTLE(); err == nil {
		t.Error("ToTLE with eccentricity 1.2 succeeded, want error")
	}

	o.Eccentricity = 0.001
	o.Inclination = 200.0
	if _, err := o.ToTLE(); err == nil {
		t.Error("ToTLE with inclination 200 succeeded, want error")
	}

	o.Inclination = 51.6
	o.ObjectID = "bogus"
	if _, err := o.ToTLE(); err == nil {
		t.Error("ToTLE with malformed OBJECT_ID succeeded, want error")
	}
}

func TestSGP4MeanStateOfOMM(t *testing.T) {
	omms, err := ParseOMMs([]byte(issOMMJSON))
	if err != nil {
		t.Fatalf("Failed to parse OMM JSON: %v", err)
	}
	state, err := SGP4MeanStateOfOMM(&omms[0], nil)
	if err != nil {
		t.Fatalf("SGP4MeanStateOfOMM: %v", err)
	}
	if state.Frame() != FrameTEME {
		t.Errorf("Frame = %v, want TEME default", state.Frame())
	}
	el := state.MeanElements().ToArray()
	if el[1] != 0.0002558 {
		t.Errorf("eccentricity = %.7f, want exact 0.0002558", el[1])
	}
}
