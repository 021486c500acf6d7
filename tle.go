package meanosc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TLE holds the fields of a NORAD two-line element set exactly as published:
// angles stay in degrees, the mean motion in revolutions per day. Unit
// conversions happen only when a theory consumes the set.
type TLE struct {
	Name string

	// line 1
	SatelliteNumber int
	Classification  rune
	International   string
	EpochYear       int
	EpochDay        float64
	MeanMotionDot   float64
	MeanMotionDot2  float64
	Bstar           float64
	ElementNumber   int
	CheckSum1       int

	// line 2
	Inclination      float64
	RightAscension   float64
	Eccentricity     float64
	ArgOfPerigee     float64
	MeanAnomaly      float64
	MeanMotion       float64
	RevolutionNumber int
	CheckSum2        int
}

// EpochTime returns the UTC time of the element set epoch. The fractional day
// is rounded to the nearest nanosecond.
func (tle *TLE) EpochTime() time.Time {
	days := int(tle.EpochDay)
	frac := tle.EpochDay - float64(days)

	base := time.Date(tle.EpochYear, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days-1)
	nanos := int64(math.Round(frac * 86400.0 * 1e9))
	return base.Add(time.Duration(nanos))
}

// ParseTLE parses a two- or three-line element set (the optional first line
// carries the object name). Both line checksums are verified.
func ParseTLE(input string) (*TLE, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	if len(lines) < 2 || len(lines) > 3 {
		return nil, fmt.Errorf("invalid TLE: must contain 2 or 3 lines")
	}

	tle := &TLE{}
	start := 0
	if len(lines) == 3 {
		tle.Name = lines[0]
		start = 1
	}

	line1, line2 := lines[start], lines[start+1]
	if len(line1) != 69 {
		return nil, fmt.Errorf("invalid TLE: line 1 must be 69 characters, got %d", len(line1))
	}
	if len(line2) != 69 {
		return nil, fmt.Errorf("invalid TLE: line 2 must be 69 characters, got %d", len(line2))
	}

	if err := tle.parseLine1(line1); err != nil {
		return nil, fmt.Errorf("error parsing line 1: %w", err)
	}
	if err := tle.parseLine2(line2); err != nil {
		return nil, fmt.Errorf("error parsing line 2: %w", err)
	}

	if sum := lineChecksum(line1); sum != tle.CheckSum1 {
		return nil, fmt.Errorf("checksum mismatch in line 1: expected %d, got %d", tle.CheckSum1, sum)
	}
	if sum := lineChecksum(line2); sum != tle.CheckSum2 {
		return nil, fmt.Errorf("checksum mismatch in line 2: expected %d, got %d", tle.CheckSum2, sum)
	}
	return tle, nil
}

func (tle *TLE) parseLine1(line string) error {
	if line[0] != '1' {
		return fmt.Errorf("line 1 must begin with '1'")
	}

	var err error
	tle.SatelliteNumber, err = strconv.Atoi(strings.TrimSpace(line[2:7]))
	if err != nil {
		return fmt.Errorf("invalid satellite number: %w", err)
	}
	tle.Classification = rune(line[7])
	tle.International = strings.TrimSpace(line[9:17])

	yy, err := strconv.Atoi(strings.TrimSpace(line[18:20]))
	if err != nil {
		return fmt.Errorf("invalid epoch year: %w", err)
	}
	// the two-digit year pivots at 57 (1957, Sputnik)
	if yy < 57 {
		tle.EpochYear = 2000 + yy
	} else {
		tle.EpochYear = 1900 + yy
	}

	tle.EpochDay, err = strconv.ParseFloat(strings.TrimSpace(line[20:32]), 64)
	if err != nil {
		return fmt.Errorf("invalid epoch day: %w", err)
	}

	tle.MeanMotionDot, err = parseLeadingDecimal(line[33:43])
	if err != nil {
		return fmt.Errorf("invalid mean motion dot ('%s'): %w", line[33:43], err)
	}
	tle.MeanMotionDot2, err = parseAssumedDecimal(line[44:50], line[50:52])
	if err != nil {
		return fmt.Errorf("invalid mean motion ddot ('%s'): %w", line[44:52], err)
	}
	tle.Bstar, err = parseAssumedDecimal(line[53:59], line[59:61])
	if err != nil {
		return fmt.Errorf("invalid B* ('%s'): %w", line[53:61], err)
	}

	tle.ElementNumber, err = strconv.Atoi(strings.TrimSpace(line[64:68]))
	if err != nil {
		return fmt.Errorf("invalid element number: %w", err)
	}
	tle.CheckSum1, err = strconv.Atoi(line[68:69])
	if err != nil {
		return fmt.Errorf("invalid checksum: %w", err)
	}
	return nil
}

func (tle *TLE) parseLine2(line string) error {
	if line[0] != '2' {
		return fmt.Errorf("line 2 must begin with '2'")
	}

	satNum, err := strconv.Atoi(strings.TrimSpace(line[2:7]))
	if err != nil {
		return fmt.Errorf("invalid satellite number in line 2: %w", err)
	}
	if satNum != tle.SatelliteNumber {
		return fmt.Errorf("satellite numbers do not match between lines (%d vs %d)", tle.SatelliteNumber, satNum)
	}

	tle.Inclination, err = strconv.ParseFloat(strings.TrimSpace(line[8:16]), 64)
	if err != nil {
		return fmt.Errorf("invalid inclination: %w", err)
	}
	tle.RightAscension, err = strconv.ParseFloat(strings.TrimSpace(line[17:25]), 64)
	if err != nil {
		return fmt.Errorf("invalid right ascension: %w", err)
	}

	// eccentricity has an assumed leading "0."
	tle.Eccentricity, err = strconv.ParseFloat("0."+strings.TrimSpace(line[26:33]), 64)
	if err != nil {
		return fmt.Errorf("invalid eccentricity ('%s'): %w", line[26:33], err)
	}

	tle.ArgOfPerigee, err = strconv.ParseFloat(strings.TrimSpace(line[34:42]), 64)
	if err != nil {
		return fmt.Errorf("invalid argument of perigee: %w", err)
	}
	tle.MeanAnomaly, err = strconv.ParseFloat(strings.TrimSpace(line[43:51]), 64)
	if err != nil {
		return fmt.Errorf("invalid mean anomaly: %w", err)
	}
	tle.MeanMotion, err = strconv.ParseFloat(strings.TrimSpace(line[52:63]), 64)
	if err != nil {
		return fmt.Errorf("invalid mean motion: %w", err)
	}
	tle.RevolutionNumber, err = strconv.Atoi(strings.TrimSpace(line[63:68]))
	if err != nil {
		return fmt.Errorf("invalid revolution number: %w", err)
	}
	tle.CheckSum2, err = strconv.Atoi(line[68:69])
	if err != nil {
		return fmt.Errorf("invalid checksum: %w", err)
	}
	return nil
}

// parseLeadingDecimal parses a field of the form " .00007749" or "-.00001234"
// where the integer part before the decimal point is omitted.
func parseLeadingDecimal(field string) (float64, error) {
	s := strings.TrimSpace(field)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	} else if strings.HasPrefix(s, "+.") {
		s = "0" + s[1:]
	}
	return strconv.ParseFloat(s, 64)
}

// parseAssumedDecimal parses the packed "SXXXXX+E" exponential notation used
// by the B* and mean motion ddot fields: a signed five-digit mantissa with an
// assumed decimal point, followed by a signed one-digit power of ten.
func parseAssumedDecimal(mantissa, exponent string) (float64, error) {
	m, err := strconv.ParseFloat(strings.TrimSpace(mantissa), 64)
	if err != nil {
		return 0, fmt.Errorf("mantissa '%s': %w", mantissa, err)
	}
	e, err := strconv.ParseInt(strings.TrimSpace(exponent), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("exponent '%s': %w", exponent, err)
	}
	return m * 1e-5 * math.Pow(10, float64(e)), nil
}

// lineChecksum computes the modulo-10 checksum over the first 68 characters:
// digits count at face value, '-' counts as 1, everything else is ignored.
func lineChecksum(line string) int {
	sum := 0
	for i := 0; i < 68; i++ {
		c := line[i]
		if c >= '0' && c <= '9' {
			sum += int(c - '0')
		} else if c == '-' {
			sum++
		}
	}
	return sum % 10
}
