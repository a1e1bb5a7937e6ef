package metric

import (
	"fmt"
	"strings"
)

// Metric is a named axis of preference. Judgments are partitioned by metric.
type Metric string

const (
	// Realistic asks which sample looks more realistic.
	Realistic Metric = "realistic"
	// Pleasing asks which sample is more aesthetically pleasing.
	Pleasing Metric = "pleasing"
)

var known = []Metric{Realistic, Pleasing}

// All returns every supported metric in declaration order.
func All() []Metric {
	out := make([]Metric, len(known))
	copy(out, known)
	return out
}

// IsValid checks if the metric is supported.
func (m Metric) IsValid() bool {
	for _, k := range known {
		if m == k {
			return true
		}
	}
	return false
}

// String returns the wire name of the metric.
func (m Metric) String() string { return string(m) }

// Parse converts a wire name into a Metric. Matching is case-insensitive.
func Parse(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown metric %q (expected one of %s)", s, joined())
	}
	return m, nil
}

// ParseList parses a list of metric names, rejecting duplicates.
func ParseList(names []string) ([]Metric, error) {
	out := make([]Metric, 0, len(names))
	seen := make(map[Metric]bool, len(names))
	for _, n := range names {
		m, err := Parse(n)
		if err != nil {
			return nil, err
		}
		if seen[m] {
			return nil, fmt.Errorf("duplicate metric %q", m)
		}
		seen[m] = true
		out = append(out, m)
	}
	return out, nil
}

func joined() string {
	parts := make([]string, len(known))
	for i, k := range known {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
