// Command skypoint converts a celestial object's sexagesimal RA/Dec into its
// current altitude and azimuth for a ground observer.
//
// Usage:
//
//	skypoint -name "Crab Nebula" -ra "05h 34m 31.94s" -dec "+22° 00′ 52.2″" -lat 51.48 -lon 0
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sky/skypoint/internal/object"
	"github.com/sky/skypoint/internal/transform"
)

func main() {
	var (
		name = flag.String("name", "object", "object name for the summary")
		ra   = flag.String("ra", "", "right ascension, sexagesimal hours (e.g. \"05h 34m 31.94s\")")
		dec  = flag.String("dec", "", "declination, sexagesimal degrees (e.g. \"+22° 00′ 52.2″\")")
		lat  = flag.Float64("lat", 0, "observer latitude in degrees, -90..90")
		lon  = flag.Float64("lon", 0, "observer longitude in degrees, east-positive")
	)
	flag.Parse()

	if *ra == "" || *dec == "" {
		fmt.Fprintln(os.Stderr, "both -ra and -dec are required")
		flag.Usage()
		os.Exit(2)
	}
	if *lat < -90 || *lat > 90 {
		fmt.Fprintln(os.Stderr, "-lat must be in -90..90")
		os.Exit(2)
	}

	obj, err := object.FromSexagesimal(*name, *ra, *dec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR parsing coordinates:", err)
		os.Exit(1)
	}

	obs := transform.NewObserver(*lat, *lon)
	now := time.Now().UTC()

	hz, err := obj.HorizontalAt(obs, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR computing position:", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", obj.Name)
	fmt.Printf("  RA  %.4f°  Dec %+.4f°\n", obj.RADeg, obj.DecDeg)
	fmt.Printf("  observer lat %.4f° lon %.4f° at %s\n", obs.LatDeg, obs.LonDeg, now.Format(time.RFC3339))
	fmt.Printf("  altitude %.2f°  azimuth %.2f°\n", hz.AltitudeDeg, hz.AzimuthDeg)
}
