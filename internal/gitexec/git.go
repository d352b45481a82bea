// Package gitexec runs git subcommands for the provisioner: init, identity
// configuration, branching, staging, committing, and the authenticated push.
package gitexec

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// CommandTimeout bounds each individual git invocation. The push carries the
// full artifact and may travel a slow link, so this is generous.
const CommandTimeout = 60 * time.Second

// commitSHAPattern matches a full 40-hex-character commit identifier.
var commitSHAPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Runner executes git commands inside one working tree. Secrets registered
// at construction (the push token) are redacted from all captured output
// before it can reach an error message or a log line.
type Runner struct {
	dir     string
	secrets []string
}

// NewRunner creates a runner for the given directory. It fails when no git
// binary is on PATH, so the provisioner can report a clear setup error
// before any remote resource is touched.
func NewRunner(dir string, secrets ...string) (*Runner, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, &CommandError{
			Message: "git not found in PATH",
			Cause:   err,
		}
	}
	return &Runner{dir: dir, secrets: secrets}, nil
}

// Init initializes an empty repository in the working tree.
func (r *Runner) Init(ctx context.Context) error {
	_, err := r.run(ctx, "init")
	return err
}

// ConfigureIdentity sets the committer name and email for the working tree.
func (r *Runner) ConfigureIdentity(ctx context.Context, name, email string) error {
	if _, err := r.run(ctx, "config", "user.name", name); err != nil {
		return err
	}
	_, err := r.run(ctx, "config", "user.email", email)
	return err
}

// CheckoutBranch creates and switches to a new branch.
func (r *Runner) CheckoutBranch(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "checkout", "-b", branch)
	return err
}

// AddAll stages every file in the working tree.
func (r *Runner) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", ".")
	return err
}

// Commit records the staged files with the given message.
func (r *Runner) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// HeadSHA returns the full commit identifier of HEAD.
func (r *Runner) HeadSHA(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(out)
	if !commitSHAPattern.MatchString(sha) {
		return "", &CommandError{
			Args:    []string{"rev-parse", "HEAD"},
			Output:  sha,
			Message: fmt.Sprintf("unexpected commit identifier %q", sha),
		}
	}
	return sha, nil
}

// AddRemote registers a remote under the given name.
func (r *Runner) AddRemote(ctx context.Context, name, url string) error {
	_, err := r.run(ctx, "remote", "add", name, url)
	return err
}

// Push uploads the branch to the remote and sets it as upstream.
func (r *Runner) Push(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "push", "-u", remote, branch)
	return err
}

// run executes one git command with a deadline, capturing combined output.
func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:    r.redact(args),
			Output:  r.redactString(output.String()),
			Message: "command failed",
			Cause:   err,
		}
	}

	return output.String(), nil
}

// redact strips registered secrets from command arguments. git embeds the
// push token in the remote URL, which would otherwise leak through errors.
func (r *Runner) redact(args []string) []string {
	redacted := make([]string, len(args))
	for i, arg := range args {
		redacted[i] = r.redactString(arg)
	}
	return redacted
}

func (r *Runner) redactString(s string) string {
	for _, secret := range r.secrets {
		if secret != "" {
			s = strings.ReplaceAll(s, secret, "***")
		}
	}
	return s
}
