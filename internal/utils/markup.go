package utils

import "strings"

// ComputeMarkupPercent returns the agency markup for a route (case-insensitive).
// Jika tidak ada rule yang cocok, kembalikan fallbackPercent dari konfigurasi.
func ComputeMarkupPercent(origin, destination string, fallbackPercent float64) float64 {
	o := strings.TrimSpace(strings.ToUpper(origin))
	d := strings.TrimSpace(strings.ToUpper(destination))
	if o == "" || d == "" {
		return fallbackPercent
	}

	match := func(a, b string) bool {
		return (o == a && d == b) || (o == b && d == a)
	}

	// Domestic trunk routes carry a thinner margin; the fare is competitive
	// and volume is high.
	domestic := []string{"CGK", "DPS", "SUB", "KNO", "UPG", "JOG"}
	for _, a := range domestic {
		for _, b := range domestic {
			if a != b && match(a, b) {
				return 3
			}
		}
	}

	// Regional short-haul.
	regional := []string{"SIN", "KUL", "BKK", "HKG"}
	for _, a := range domestic {
		for _, b := range regional {
			if match(a, b) {
				return 5
			}
		}
	}

	// Long-haul default margin.
	return fallbackPercent
}
