package sampling

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/exp/rand"
)

//go:embed distribution.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("distribution.schema.json", schemaJSON)

// Spec is the on-disk description of one distribution, as it appears in
// scenario files.
type Spec struct {
	Dist     string    `yaml:"dist" json:"dist"`
	Params   []float64 `yaml:"params,omitempty" json:"params,omitempty"`
	Data     []float64 `yaml:"data,omitempty" json:"data,omitempty"`
	DataFile string    `yaml:"data_file,omitempty" json:"data_file,omitempty"`
}

// Validate checks the spec shape against the embedded schema. Parameter
// arity and ranges are checked later, when the spec is compiled.
func (s Spec) Validate() error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sampling: encode spec: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("sampling: decode spec: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("sampling: invalid distribution: %w", err)
	}
	return nil
}

// Compile validates the spec and binds it to a sampler drawing from src.
func (s Spec) Compile(src rand.Source) (Sampler, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Dist {
	case "uniform":
		if err := wantParams(s.Dist, s.Params, 2); err != nil {
			return nil, err
		}
		return NewUniform(s.Params[0], s.Params[1], src)
	case "empirical":
		data := s.Data
		if s.DataFile != "" {
			var err error
			if data, err = readDataFile(s.DataFile); err != nil {
				return nil, err
			}
		}
		return NewEmpirical(data, src)
	default:
		return NewTheoretical(s.Dist, s.Params, src)
	}
}

// readDataFile parses one float per line; blank lines and lines starting
// with # are skipped.
func readDataFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sampling: open data file: %w", err)
	}
	defer f.Close()

	var data []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("sampling: %s:%d: %w", path, line, err)
		}
		data = append(data, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sampling: read data file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("sampling: data file %s holds no values", path)
	}
	return data, nil
}
