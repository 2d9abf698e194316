package reconcile

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Expectations maps each primary id to the id the lookup should return.
// A nil target means "no confident match".
type Expectations struct {
	TransactionToAttachment map[int64]*int64 `yaml:"transaction_to_attachment"`
	AttachmentToTransaction map[int64]*int64 `yaml:"attachment_to_transaction"`
}

// LoadExpectations reads an expectations YAML file
func LoadExpectations(path string) (*Expectations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open expectations: %w", err)
	}
	defer f.Close()

	exp, err := DecodeExpectations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return exp, nil
}

// DecodeExpectations parses expectations YAML
func DecodeExpectations(r io.Reader) (*Expectations, error) {
	var exp Expectations
	if err := yaml.NewDecoder(r).Decode(&exp); err != nil {
		return nil, fmt.Errorf("failed to decode expectations: %w", err)
	}
	return &exp, nil
}

// sortedKeys returns the primary ids in ascending order
func sortedKeys(m map[int64]*int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
