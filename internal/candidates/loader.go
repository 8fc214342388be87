package candidates

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/vitgroww/roomie/internal/validator"
)

// LoadFile reads a JSON array of candidate records. Every record is
// normalized and validated; the first invalid record fails the load.
func LoadFile(path string, v *validator.Validator) (*Candidates, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}

	return Decode(items, v)
}

// Decode converts generic records into validated candidates.
func Decode(items []map[string]any, v *validator.Validator) (*Candidates, error) {
	out := &Candidates{Items: make([]*Candidate, 0, len(items))}
	seen := make(map[string]int, len(items))

	for idx, item := range items {
		candidate, err := decodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("candidate #%d: %w", idx, err)
		}

		if err := Prepare(candidate, v); err != nil {
			return nil, fmt.Errorf("candidate #%d (%s): %w", idx, candidate.Name, err)
		}

		if prev, ok := seen[candidate.ID]; ok {
			return nil, fmt.Errorf("candidate #%d: duplicate id %q (first seen at #%d)", idx, candidate.ID, prev)
		}
		seen[candidate.ID] = idx

		out.Items = append(out.Items, candidate)
	}

	return out, nil
}

// Prepare normalizes a candidate in place, assigning an ID when missing, and validates it.
func Prepare(c *Candidate, v *validator.Validator) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Profile = c.Profile.Normalized()

	if v == nil {
		return nil
	}
	return v.Validate(c)
}

func decodeOne(item map[string]any) (*Candidate, error) {
	var candidate Candidate

	cfg := &mapstructure.DecoderConfig{
		Result:           &candidate,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(item); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &candidate, nil
}
