package provision

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/deploy-agent/internal/generator"
	"github.com/jonathan/deploy-agent/internal/publish"
	"github.com/jonathan/deploy-agent/internal/types"
)

const (
	licenseFile = "LICENSE"
	readmeFile  = "README.md"

	timestampLayout = "2006-01-02 15:04:05 UTC"
)

// materialize builds the local working tree: every artifact file, the
// license, and the readme. Artifact writes fan out over an errgroup since
// they are independent.
func (p *Provisioner) materialize(workDir string, job *types.JobRequest, artifact *types.Artifact) error {
	var g errgroup.Group
	for name, content := range artifact.Files {
		g.Go(func() error {
			return writeTreeFile(workDir, name, content)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("[%s] Wrote %d artifact file(s)", job.TaskID, artifact.Len())

	if err := writeTreeFile(workDir, licenseFile, p.licenseText()); err != nil {
		return err
	}
	return writeTreeFile(workDir, readmeFile, p.readmeText(job, artifact))
}

// writeTreeFile writes one file under workDir, creating parent directories
// as needed. Artifact paths are sanitized upstream, so name is a clean
// relative path by the time it reaches here.
func writeTreeFile(workDir, name, content string) error {
	target := filepath.Join(workDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// licenseText renders the MIT license for the configured account.
func (p *Provisioner) licenseText() string {
	return fmt.Sprintf(`MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`, time.Now().UTC().Year(), p.account)
}

// readmeText renders the repository readme: the brief, the expected live
// URL, setup instructions, and the artifact file list. HTML files are
// annotated with their document title when one can be extracted.
func (p *Provisioner) readmeText(job *types.JobRequest, artifact *types.Artifact) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", job.TaskID)
	sb.WriteString("## Summary\nLLM-generated web application.\n\n")
	fmt.Fprintf(&sb, "**Brief:** %s\n\n", job.Brief)
	fmt.Fprintf(&sb, "**Live Demo:** %s\n\n", publish.PagesURL(p.account, job.TaskID))

	sb.WriteString("## Setup\nThis is a static web app. To run locally:\n\n")
	fmt.Fprintf(&sb, "```bash\n# Clone the repository\ngit clone https://github.com/%s/%s.git\ncd %s\n\n# Open in browser\nopen index.html\n\n# Or use a local server\npython -m http.server 8000\n```\n\n", p.account, job.TaskID, job.TaskID)

	sb.WriteString("## Files\n")
	for _, name := range artifact.FileNames() {
		if annotation := describeFile(name, artifact.Files[name]); annotation != "" {
			fmt.Fprintf(&sb, "- `%s`: %s\n", name, annotation)
		} else {
			fmt.Fprintf(&sb, "- `%s`: Application file\n", name)
		}
	}

	sb.WriteString("\n## Usage\nOpen `index.html` in your web browser.\n\n")
	sb.WriteString("## License\nMIT License - See LICENSE file for details.\n\n")
	fmt.Fprintf(&sb, "## Generated\nGenerated on %s using LLM technology.\n", time.Now().UTC().Format(timestampLayout))

	return sb.String()
}

// describeFile returns a human annotation for an artifact file, or "" for
// the generic one.
func describeFile(name, content string) string {
	if !strings.HasSuffix(name, ".html") {
		return ""
	}
	if title := generator.InspectHTML(content); title != "" {
		return fmt.Sprintf("Application file (%s)", title)
	}
	return ""
}
