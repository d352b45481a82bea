package generator

import (
	_ "embed"

	"github.com/jonathan/deploy-agent/internal/prompts"
	"github.com/jonathan/deploy-agent/internal/types"
)

const indexFile = "index.html"

// briefExcerptLen bounds how much of the brief appears on the fallback page.
const briefExcerptLen = 200

//go:embed fallback.html
var fallbackPage string

// Fallback builds the single-file artifact substituted when generation fails
// or returns unusable output. The page embeds the task name and the leading
// portion of the brief so the deployment is never empty.
func Fallback(job *types.JobRequest) *types.Artifact {
	return &types.Artifact{
		Files:    map[string]string{indexFile: buildIndexPage(job.TaskID, job.Brief)},
		Fallback: true,
	}
}

// buildIndexPage renders the built-in page for the given title and brief.
func buildIndexPage(title, brief string) string {
	return prompts.Format(fallbackPage, map[string]string{
		"Title": title,
		"Brief": briefExcerpt(brief),
	})
}

// briefExcerpt returns the first briefExcerptLen characters of the brief,
// rune-safe.
func briefExcerpt(brief string) string {
	runes := []rune(brief)
	if len(runes) <= briefExcerptLen {
		return brief
	}
	return string(runes[:briefExcerptLen])
}
