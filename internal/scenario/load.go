package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/typeinfer/internal/utils"
)

var (
	ErrNoCalls      = errors.New("scenario declares no calls")
	ErrBadExtension = errors.New("not a scenario file")
)

// Load reads and parses a scenario file.
func Load(path string) (*File, error) {
	if !utils.HasScenarioExt(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrBadExtension)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses scenario YAML. Unknown fields are rejected so that typos
// in a scenario do not pass silently. The path is used in errors only.
func Parse(data []byte, path string) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoCalls)
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(f.Calls) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCalls)
	}
	if f.Name == "" {
		f.Name = utils.ScenarioName(path)
	}
	return &f, nil
}
