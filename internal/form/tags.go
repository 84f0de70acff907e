package form

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// TagSet is an ordered set of tags. An empty set means "all tags".
// Every mutation that changes the set reports the complete new set to the
// change listener, never a delta.
type TagSet struct {
	values   []string
	maxLen   int
	onChange func([]string)
}

// NewTagSet creates a tag set seeded with initial. Tags longer than maxLen
// runes are rejected; maxLen <= 0 disables the limit.
func NewTagSet(initial []string, maxLen int, onChange func([]string)) *TagSet {
	ts := &TagSet{maxLen: maxLen, onChange: onChange}
	for _, t := range initial {
		if t = normalizeTag(t); ts.acceptable(t) {
			ts.values = append(ts.values, t)
		}
	}
	return ts
}

func normalizeTag(t string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
}

func (ts *TagSet) acceptable(t string) bool {
	if t == "" || slices.Contains(ts.values, t) {
		return false
	}
	return ts.maxLen <= 0 || len([]rune(t)) <= ts.maxLen
}

// Add appends tag unless it is empty, too long or already present.
// It reports whether the set changed.
func (ts *TagSet) Add(tag string) bool {
	tag = normalizeTag(tag)
	if !ts.acceptable(tag) {
		return false
	}
	ts.values = append(ts.values, tag)
	ts.emit()
	return true
}

// Remove deletes tag and reports whether the set changed.
func (ts *TagSet) Remove(tag string) bool {
	idx := slices.Index(ts.values, normalizeTag(tag))
	if idx < 0 {
		return false
	}
	ts.values = slices.Delete(ts.values, idx, idx+1)
	ts.emit()
	return true
}

// Reset empties the set.
func (ts *TagSet) Reset() {
	if len(ts.values) == 0 {
		return
	}
	ts.values = nil
	ts.emit()
}

// Values returns a copy of the tags in insertion order.
func (ts *TagSet) Values() []string {
	return lo.Ternary(len(ts.values) == 0, []string{}, slices.Clone(ts.values))
}

// All reports whether the set is empty, i.e. no tag filtering.
func (ts *TagSet) All() bool {
	return len(ts.values) == 0
}

func (ts *TagSet) emit() {
	if ts.onChange != nil {
		ts.onChange(ts.Values())
	}
}
