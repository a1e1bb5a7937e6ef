package sample

import (
	"fmt"
	"strconv"

	domsample "github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// sampleToHash converts a domain Sample to a map for HSET.
func sampleToHash(s domsample.Sample) map[string]string {
	return map[string]string{
		"id":      s.ID(),
		"task":    s.Task(),
		"name":    s.Name(),
		"fitness": strconv.FormatFloat(s.Fitness(), 'g', -1, 64),
	}
}

// sampleFromHash hydrates a domain Sample from an HGETALL result map.
func sampleFromHash(m map[string]string) (domsample.Sample, error) {
	id, task, name := m["id"], m["task"], m["name"]
	if id == "" || task == "" || name == "" {
		return domsample.Sample{}, fmt.Errorf("incomplete sample hash")
	}

	var fitness float64
	if v := m["fitness"]; v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domsample.Sample{}, fmt.Errorf("invalid fitness: %w", err)
		}
		fitness = parsed
	}

	return domsample.Reconstruct(id, task, name, fitness), nil
}
