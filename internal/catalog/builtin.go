package catalog

import (
	"time"

	"github.com/sky/skypoint/internal/object"
)

// Builtin returns the compiled-in bright-star catalog. Coordinates are J2000
// epoch decimal degrees, data from the Yale Bright Star Catalog and IAU star
// names, ordered roughly by magnitude (brightest first).
func Builtin() *Dataset {
	entries := make([]Entry, len(builtinStars))
	for i, s := range builtinStars {
		entries[i] = Entry{
			Object: object.New(s.name, s.raDeg, s.decDeg),
			Mag:    s.mag,
		}
	}
	return &Dataset{
		Source:   "builtin",
		LoadedAt: time.Now(),
		Entries:  entries,
	}
}

type builtinStar struct {
	name   string
	raDeg  float64
	decDeg float64
	mag    float64
}

var builtinStars = []builtinStar{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Hadar", 210.956, -60.373, 0.61},
	{"Altair", 297.696, 8.868, 0.76},
	{"Acrux", 186.650, -63.099, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Mimosa", 191.930, -59.689, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Adhara", 104.656, -28.972, 1.50},
	{"Castor", 113.650, 31.889, 1.58},
	{"Gacrux", 187.791, -57.113, 1.63},
	{"Shaula", 263.402, -37.104, 1.63},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Elnath", 81.573, 28.608, 1.65},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alnitak", 85.190, -1.943, 1.77},
	{"Alioth", 193.507, 55.960, 1.77},
	{"Dubhe", 165.932, 61.751, 1.79},
	{"Mirfak", 51.081, 49.861, 1.79},
	{"Wezen", 107.098, -26.393, 1.84},
	{"Kaus Australis", 276.043, -34.384, 1.85},
	{"Alkaid", 206.885, 49.313, 1.86},
	{"Menkalinan", 89.882, 44.948, 1.90},
	{"Alhena", 99.428, 16.399, 1.93},
	{"Mirzam", 95.675, -17.956, 1.98},
	{"Alphard", 141.897, -8.659, 2.00},
	{"Hamal", 31.793, 23.463, 2.00},
	{"Polaris", 37.954, 89.264, 2.02},
	{"Diphda", 10.897, -17.987, 2.02},
	{"Nunki", 283.816, -26.297, 2.02},
	{"Mizar", 200.981, 54.925, 2.04},
	{"Alpheratz", 2.097, 29.091, 2.06},
	{"Rasalhague", 263.734, 12.560, 2.08},
	{"Kochab", 222.676, 74.156, 2.08},
	{"Saiph", 86.939, -9.670, 2.09},
	{"Algol", 47.042, 40.957, 2.12},
	{"Denebola", 177.265, 14.572, 2.13},
	{"Mintaka", 83.002, -0.299, 2.23},
	{"Sadr", 305.557, 40.257, 2.23},
	{"Eltanin", 269.152, 51.489, 2.23},
	{"Schedar", 10.127, 56.537, 2.23},
	{"Naos", 120.896, -40.003, 2.25},
	{"Alphecca", 233.672, 26.715, 2.23},
	{"Caph", 2.295, 59.150, 2.27},
	{"Dschubba", 240.083, -22.622, 2.32},
	{"Merak", 165.460, 56.382, 2.37},
	{"Izar", 221.247, 27.074, 2.37},
	{"Enif", 326.046, 9.875, 2.39},
	{"Ankaa", 6.571, -42.306, 2.38},
	{"Phecda", 178.458, 53.695, 2.44},
	{"Sabik", 257.595, -15.725, 2.43},
	{"Scheat", 345.944, 28.083, 2.42},
	{"Alderamin", 319.645, 62.586, 2.51},
	{"Markab", 346.190, 15.205, 2.49},
}
