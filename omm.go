package meanosc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OMM is a single Orbit Mean-elements Message in the JSON representation
// published by space-track.org. Angles are in degrees and the mean motion in
// revolutions per day, matching the TLE conventions.
type OMM struct {
	ObjectName         string  `json:"OBJECT_NAME"`
	ObjectID           string  `json:"OBJECT_ID"`
	EpochStr           string  `json:"EPOCH"`
	MeanMotion         float64 `json:"MEAN_MOTION"`
	Eccentricity       float64 `json:"ECCENTRICITY"`
	Inclination        float64 `json:"INCLINATION"`
	RAOfAscNode        float64 `json:"RA_OF_ASC_NODE"`
	ArgOfPericenter    float64 `json:"ARG_OF_PERICENTER"`
	MeanAnomaly        float64 `json:"MEAN_ANOMALY"`
	EphemerisType      int     `json:"EPHEMERIS_TYPE"`
	ClassificationType string  `json:"CLASSIFICATION_TYPE"`
	NoradCatID         int     `json:"NORAD_CAT_ID"`
	ElementSetNo       int     `json:"ELEMENT_SET_NO"`
	RevAtEpoch         int     `json:"REV_AT_EPOCH"`
	BStar              float64 `json:"BSTAR"`
	MeanMotionDot      float64 `json:"MEAN_MOTION_DOT"`
	MeanMotionDDot     float64 `json:"MEAN_MOTION_DDOT"`

	CenterName        string `json:"CENTER_NAME,omitempty"`
	RefFrame          string `json:"REF_FRAME,omitempty"`
	TimeSystem        string `json:"TIME_SYSTEM,omitempty"`
	MeanElementTheory string `json:"MEAN_ELEMENT_THEORY,omitempty"`
}

// ParseOMMs parses a JSON array of OMM objects.
func ParseOMMs(jsonData []byte) ([]OMM, error) {
	var omms []OMM
	if err := json.Unmarshal(jsonData, &omms); err != nil {
		return nil, fmt.Errorf("error unmarshalling OMM JSON: %w", err)
	}
	return omms, nil
}

// Epoch parses the OMM epoch string as UTC. Strings without an explicit zone
// designator are interpreted as UTC, per the CCSDS convention.
func (o *OMM) Epoch() (time.Time, error) {
	s := o.EpochStr
	hasZone := strings.HasSuffix(s, "Z")
	if !hasZone {
		if i := strings.LastIndexAny(s, "+-"); i > 7 && strings.Contains(s[i:], ":") {
			hasZone = true
		}
	}
	if hasZone {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("error parsing OMM epoch '%s': %w", s, err)
		}
		return t.UTC(), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("error parsing OMM epoch '%s': unrecognized layout", s)
}

// ToTLE converts the message to an equivalent TLE struct. Checksums are not
// part of OMM data and are left zero.
func (o *OMM) ToTLE() (*TLE, error) {
	tle := &TLE{
		Name:             o.ObjectName,
		SatelliteNumber:  o.NoradCatID,
		Classification:   'U',
		MeanMotionDot:    o.MeanMotionDot,
		MeanMotionDot2:   o.MeanMotionDDot,
		Bstar:            o.BStar,
		ElementNumber:    o.ElementSetNo,
		Inclination:      o.Inclination,
		RightAscension:   o.RAOfAscNode,
		Eccentricity:     o.Eccentricity,
		ArgOfPerigee:     o.ArgOfPericenter,
		MeanAnomaly:      o.MeanAnomaly,
		MeanMotion:       o.MeanMotion,
		RevolutionNumber: o.RevAtEpoch,
	}
	if len(o.ClassificationType) > 0 {
		tle.Classification = rune(o.ClassificationType[0])
	}

	var err error
	tle.International, err = objectIDToInternational(o.ObjectID)
	if err != nil {
		return nil, err
	}

	epoch, err := o.Epoch()
	if err != nil {
		return nil, err
	}
	tle.EpochYear = epoch.Year()
	startOfDay := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, time.UTC)
	fraction := float64(epoch.Sub(startOfDay).Nanoseconds()) / (86400.0 * 1e9)
	tle.EpochDay = float64(epoch.YearDay()) + fraction

	if tle.Eccentricity >= 1.0 || tle.Eccentricity < 0.0 {
		return nil, fmt.Errorf("eccentricity from OMM (%.10f) is out of TLE bounds [0,1)", tle.Eccentricity)
	}
	if tle.Inclination < 0.0 || tle.Inclination > 180.0 {
		return nil, fmt.Errorf("inclination from OMM (%.4f) is out of TLE bounds [0,180]", tle.Inclination)
	}
	return tle, nil
}

// objectIDToInternational converts "1998-067A" to the TLE designator "98067A".
func objectIDToInternational(objectID string) (string, error) {
	parts := strings.Split(objectID, "-")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid OBJECT_ID format: expected 'YYYY-NNNPPP', got '%s'", objectID)
	}
	year, piece := parts[0], parts[1]
	if len(year) < 2 {
		return "", fmt.Errorf("invalid year part in OBJECT_ID: '%s'", year)
	}
	if len(piece) < 4 {
		return "", fmt.Errorf("invalid launch number/piece part in OBJECT_ID: '%s'", piece)
	}
	return year[len(year)-2:] + piece, nil
}
