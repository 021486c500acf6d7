package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/meanosc/meanosc"
)

func main() {
	tleFile := flag.String("tle", "", "path to a TLE file (2 or 3 lines)")
	ommFile := flag.String("omm", "", "path to a JSON array of OMM objects")
	flag.Parse()

	var states []*meanosc.SGP4MeanState

	switch {
	case *tleFile != "":
		data, err := os.ReadFile(*tleFile)
		if err != nil {
			log.Fatalf("reading TLE file: %v", err)
		}
		tle, err := meanosc.ParseTLE(string(data))
		if err != nil {
			log.Fatalf("parsing TLE: %v", err)
		}
		state, err := meanosc.SGP4MeanStateOf(tle, meanosc.FrameTEME)
		if err != nil {
			log.Fatalf("building mean state: %v", err)
		}
		states = append(states, state)
	case *ommFile != "":
		data, err := os.ReadFile(*ommFile)
		if err != nil {
			log.Fatalf("reading OMM file: %v", err)
		}
		omms, err := meanosc.ParseOMMs(data)
		if err != nil {
			log.Fatalf("parsing OMM: %v", err)
		}
		for i := range omms {
			state, err := meanosc.SGP4MeanStateOfOMM(&omms[i], meanosc.FrameTEME)
			if err != nil {
				log.Fatalf("building mean state for %s: %v", omms[i].ObjectName, err)
			}
			states = append(states, state)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	for _, state := range states {
		el := state.MeanElements().ToArray()
		fmt.Printf("Epoch: %s (%s)\n", state.Epoch().Format("2006-01-02 15:04:05.000"), state.Frame())
		fmt.Printf("Mean elements: a=%.3f km  e=%.7f  i=%.4f deg  raan=%.4f deg  aop=%.4f deg  M=%.4f deg\n",
			el[0]/1000.0, el[1], el[2]*180.0/math.Pi, el[3]*180.0/math.Pi, el[4]*180.0/math.Pi, el[5]*180.0/math.Pi)

		osc, err := state.ToOsculatingOrbit()
		if err != nil {
			log.Fatalf("osculating recovery: %v", err)
		}
		pos, vel := osc.PositionVelocity()
		fmt.Printf("Osculating: a=%.3f km  ex=%.7f  ey=%.7f  hx=%.6f  hy=%.6f  Lv=%.4f deg\n",
			osc.SemiMajorAxis()/1000.0, osc.EquinoctialEx(), osc.EquinoctialEy(),
			osc.Hx(), osc.Hy(), osc.TrueLongitude()*180.0/math.Pi)
		fmt.Printf("Position (km):   %12.3f %12.3f %12.3f\n", pos.X/1000.0, pos.Y/1000.0, pos.Z/1000.0)
		fmt.Printf("Velocity (km/s): %12.6f %12.6f %12.6f\n\n", vel.X/1000.0, vel.Y/1000.0, vel.Z/1000.0)
	}
}
