// Package model loads serialized delay-model artifacts and scores encoded
// feature rows. The artifact is a distilled export of the trained
// gradient-boosting classifier: per-class linear weights over the encoded
// feature space, plus the categorical encodings and feature means captured
// at training time.
package model

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed artifacts/delay_model.json
var embedded embed.FS

// Artifact is the serialized model bundle.
type Artifact struct {
	Name         string                        `json:"name"`
	Version      string                        `json:"version"`
	Features     []string                      `json:"features"`
	DisplayNames []string                      `json:"feature_display_names"`
	Classes      []string                      `json:"class_names"`
	Weights      [][]float64                   `json:"weights"` // [class][feature]
	Bases        []float64                     `json:"bases"`   // per-class intercept
	Means        []float64                     `json:"feature_means"`
	Encodings    map[string]map[string]float64 `json:"encodings"`
}

// LoadEmbedded returns the artifact compiled into the binary.
func LoadEmbedded() (*Artifact, error) {
	data, err := embedded.ReadFile("artifacts/delay_model.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded artifact: %w", err)
	}
	return parse(data)
}

// LoadFile reads an artifact from disk, for deployments that ship retrained
// model exports separately from the binary.
func LoadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("artifact has no features")
	}
	if len(a.DisplayNames) != n {
		return fmt.Errorf("artifact: %d display names for %d features", len(a.DisplayNames), n)
	}
	if len(a.Means) != n {
		return fmt.Errorf("artifact: %d means for %d features", len(a.Means), n)
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("artifact has no classes")
	}
	if len(a.Weights) != len(a.Classes) || len(a.Bases) != len(a.Classes) {
		return fmt.Errorf("artifact: weights/bases do not match %d classes", len(a.Classes))
	}
	for c, w := range a.Weights {
		if len(w) != n {
			return fmt.Errorf("artifact: class %d has %d weights for %d features", c, len(w), n)
		}
	}
	return nil
}

// Encode looks up the numeric encoding of a categorical value. The bool is
// false when the value was never seen at training time.
func (a *Artifact) Encode(field, value string) (float64, bool) {
	enc, ok := a.Encodings[field]
	if !ok {
		return 0, false
	}
	v, ok := enc[value]
	return v, ok
}

// Options returns the categorical values for a field in encoding order.
func (a *Artifact) Options(field string) []string {
	enc, ok := a.Encodings[field]
	if !ok {
		return nil
	}
	out := make([]string, len(enc))
	for value, idx := range enc {
		i := int(idx)
		if i >= 0 && i < len(out) {
			out[i] = value
		}
	}
	return out
}
