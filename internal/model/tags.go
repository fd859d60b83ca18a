package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

const tagSeparator = ","

// TagSet is an ordered set of labels. It is joined into a single delimited
// string only when written to the wire or to the store.
type TagSet []string

// NewTagSet trims labels and drops empty and repeated ones.
func NewTagSet(labels ...string) TagSet {
	var set TagSet
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		set = append(set, l)
	}
	return set
}

// ParseTags splits the delimited representation.
func ParseTags(s string) TagSet {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NewTagSet(strings.Split(s, tagSeparator)...)
}

// String joins the labels with the store delimiter.
func (t TagSet) String() string {
	return strings.Join(t, tagSeparator)
}

// Contains reports whether label is in the set, ignoring surrounding space.
func (t TagSet) Contains(label string) bool {
	label = strings.TrimSpace(label)
	for _, l := range t {
		if l == label {
			return true
		}
	}
	return false
}

func (t TagSet) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts null, a delimited string or an array of labels.
func (t *TagSet) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = nil
	case string:
		*t = ParseTags(v)
	case []any:
		labels := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("tags: expected string label, got %T", item)
			}
			labels = append(labels, s)
		}
		*t = NewTagSet(labels...)
	default:
		return fmt.Errorf("tags: unsupported JSON type %T", raw)
	}
	return nil
}
