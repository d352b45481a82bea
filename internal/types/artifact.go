package types

import "sort"

// Artifact is the generated set of files composing one deployable unit.
// Keys are relative file paths (no parent-traversal segments, never rooted),
// values are text contents. An Artifact always contains at least one file:
// when generation fails or returns unusable output, the producer substitutes
// a fallback single-file artifact and marks it as such.
type Artifact struct {
	Files    map[string]string `json:"files"`
	Fallback bool              `json:"fallback"`
}

// FileNames returns the artifact's file paths in sorted order.
func (a *Artifact) FileNames() []string {
	names := make([]string, 0, len(a.Files))
	for name := range a.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of files in the artifact.
func (a *Artifact) Len() int {
	return len(a.Files)
}
