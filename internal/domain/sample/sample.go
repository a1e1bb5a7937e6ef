package sample

import (
	"crypto/sha1" //nolint:gosec // identifier derivation, not a security boundary
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var taskRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxNameLength is the maximum sample name length in bytes.
const MaxNameLength = 256

// Sample is one comparable item of a task (immutable value object).
type Sample struct {
	id      string
	task    string
	name    string
	fitness float64
}

// ValidateTask checks a task identifier: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateTask(task string) error {
	if task == "" {
		return fmt.Errorf("task is required")
	}
	if len(task) > 64 {
		return fmt.Errorf("task name too long (max 64)")
	}
	if !taskRegex.MatchString(task) {
		return fmt.Errorf("task name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("sample name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("sample name too long (max %d)", MaxNameLength)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("sample name must not contain path separators")
	}
	return nil
}

// New validates and creates a Sample. The id is derived from (task, name),
// so the same file scanned twice keeps its identifier.
func New(task, name string, fitness float64) (Sample, error) {
	if err := ValidateTask(task); err != nil {
		return Sample{}, err
	}
	if err := validateName(name); err != nil {
		return Sample{}, err
	}
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		return Sample{}, fmt.Errorf("fitness must be finite")
	}
	return Sample{id: DeriveID(task, name), task: task, name: name, fitness: fitness}, nil
}

// Reconstruct creates a Sample without validation (storage hydration).
func Reconstruct(id, task, name string, fitness float64) Sample {
	return Sample{id: id, task: task, name: name, fitness: fitness}
}

// DeriveID returns the opaque 24-hex identifier for a (task, name) pair.
func DeriveID(task, name string) string {
	h := sha1.Sum([]byte(task + "/" + name)) //nolint:gosec // see import
	return hex.EncodeToString(h[:12])
}

// ID returns the opaque sample identifier.
func (s Sample) ID() string { return s.id }

// Task returns the owning task.
func (s Sample) Task() string { return s.task }

// Name returns the sample name (file stem).
func (s Sample) Name() string { return s.name }

// Fitness returns the generator fitness recorded for the sample.
func (s Sample) Fitness() float64 { return s.fitness }
