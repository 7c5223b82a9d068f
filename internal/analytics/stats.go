package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// mean of vals, 0 for an empty slice.
func mean(vals []float64) float64 {
	m, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return m
}

func median(vals []float64) float64 {
	m, err := stats.Median(vals)
	if err != nil {
		return 0
	}
	return m
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
