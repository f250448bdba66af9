package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Round2 rounds to two decimal places. Applied at the output boundary only;
// intermediate computation keeps full precision.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle element for odd-length input and the average of
// the two middle elements for even-length input. Input is not mutated.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Modes returns every value sharing the highest frequency, ascending.
// Multimodality is a legitimate outcome and is never resolved arbitrarily.
func Modes(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	freq := make(map[float64]int, len(values))
	for _, v := range values {
		freq[v]++
	}
	maxFreq := 0
	for _, count := range freq {
		if count > maxFreq {
			maxFreq = count
		}
	}
	modes := make([]float64, 0, len(freq))
	for v, count := range freq {
		if count == maxFreq {
			modes = append(modes, v)
		}
	}
	sort.Float64s(modes)
	return modes
}

// FormatModes joins modes as "2.00, 4.00". Empty input formats as "N/A".
func FormatModes(modes []float64) string {
	if len(modes) == 0 {
		return "N/A"
	}
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = fmt.Sprintf("%.2f", m)
	}
	return strings.Join(parts, ", ")
}

// StdDevSample is the sample standard deviation (divisor n-1). Defined as 0
// when n <= 1; callers must not read statistical meaning into that value.
func StdDevSample(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// StdDevPopulation is the population standard deviation (divisor n), 0 for
// empty input. The divisor differs from StdDevSample on purpose: per-course
// statistics use the sample convention while cohort metrics use population.
func StdDevPopulation(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}
