package generator

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/jonathan/deploy-agent/internal/llm"
	"github.com/jonathan/deploy-agent/internal/schemas"
	"github.com/jonathan/deploy-agent/internal/types"
)

// ParseArtifact turns raw model output into an artifact. It tolerates
// markdown fences and surrounding prose, validates the salvaged JSON against
// the artifact-files schema, and drops individual entries whose paths would
// escape the working tree. The dropped paths are returned for logging.
// An error means the output is unusable and the caller should fall back.
func ParseArtifact(raw string) (*types.Artifact, []string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.ValidateArtifactFiles(cleaned); err != nil {
		return nil, nil, fmt.Errorf("output does not match artifact schema: %w", err)
	}

	var files map[string]string
	if err := json.Unmarshal([]byte(cleaned), &files); err != nil {
		return nil, nil, fmt.Errorf("failed to decode artifact JSON: %w", err)
	}

	files, dropped := sanitizeFiles(files)
	if len(files) == 0 {
		return nil, dropped, fmt.Errorf("no usable files after path sanitization")
	}

	return &types.Artifact{Files: files}, dropped, nil
}

// sanitizeFiles normalizes artifact paths and drops entries that are empty,
// rooted, or contain parent-traversal segments.
func sanitizeFiles(files map[string]string) (map[string]string, []string) {
	clean := make(map[string]string, len(files))
	var dropped []string

	for name, content := range files {
		normalized, ok := safeRelPath(name)
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		clean[normalized] = content
	}

	return clean, dropped
}

// safeRelPath reports whether name stays inside the working tree, returning
// its cleaned form.
func safeRelPath(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "\\") {
		return "", false
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}

	return cleaned, true
}
