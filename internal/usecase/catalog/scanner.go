package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// dataSuffix names the per-sample metadata file next to the media file.
const dataSuffix = ".data.yml"

var mediaExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
}

// sampleData is the content of a <name>.data.yml file.
type sampleData struct {
	Fitness *float64 `yaml:"fitness"`
}

// scannedSample is one media file found in a task directory.
type scannedSample struct {
	name    string
	fitness float64
	hasData bool
}

// listTasks returns the sub-directories of root, sorted.
func listTasks(root fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(root, ".")
	if err != nil {
		return nil, fmt.Errorf("read tasks dir: %w", err)
	}
	var tasks []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			tasks = append(tasks, e.Name())
		}
	}
	sort.Strings(tasks)
	return tasks, nil
}

// scanTask lists the media files of one task directory. Names are file
// stems, deduplicated across extensions and sorted.
func scanTask(root fs.FS, task string) ([]scannedSample, error) {
	entries, err := fs.ReadDir(root, task)
	if err != nil {
		return nil, fmt.Errorf("read task dir %s: %w", task, err)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := path.Ext(e.Name())
		if _, ok := mediaExtensions[strings.ToLower(ext)]; !ok {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ext)
		if stem == "" {
			continue
		}
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		names = append(names, stem)
	}
	sort.Strings(names)

	out := make([]scannedSample, 0, len(names))
	for _, name := range names {
		s := scannedSample{name: name}
		data, err := readSampleData(root, path.Join(task, name+dataSuffix))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			s.fitness, s.hasData = data, true
		}
		out = append(out, s)
	}
	return out, nil
}

func readSampleData(root fs.FS, name string) (float64, error) {
	raw, err := fs.ReadFile(root, name)
	if err != nil {
		return 0, err //nolint:wrapcheck // callers test for fs.ErrNotExist
	}
	var data sampleData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if data.Fitness == nil {
		return 0, fmt.Errorf("parse %s: fitness is required", name)
	}
	return *data.Fitness, nil
}
