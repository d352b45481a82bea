package gitexec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandError_Format(t *testing.T) {
	cause := errors.New("exit status 128")
	err := &CommandError{
		Args:    []string{"push", "-u", "origin", "main"},
		Message: "command failed",
		Cause:   cause,
	}

	assert.Equal(t, "git push -u origin main: command failed: exit status 128", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestCommandError_NoCause(t *testing.T) {
	err := &CommandError{
		Args:    []string{"rev-parse", "HEAD"},
		Message: `unexpected commit identifier "HEAD"`,
	}
	assert.Equal(t, `git rev-parse HEAD: unexpected commit identifier "HEAD"`, err.Error())
}

func TestRedact_StripsSecretsFromArgsAndOutput(t *testing.T) {
	r := &Runner{secrets: []string{"tok-123"}}

	args := r.redact([]string{"remote", "add", "origin", "https://tok-123@github.com/acct/calc-42.git"})
	assert.Equal(t, "https://***@github.com/acct/calc-42.git", args[3])

	out := r.redactString("fatal: unable to access 'https://tok-123@github.com/acct/calc-42.git'")
	assert.NotContains(t, out, "tok-123")
	assert.Contains(t, out, "***")
}

func TestRedact_EmptySecretIsIgnored(t *testing.T) {
	r := &Runner{secrets: []string{""}}
	assert.Equal(t, "plain output", r.redactString("plain output"))
}

func TestCommitSHAPattern(t *testing.T) {
	require.True(t, commitSHAPattern.MatchString("0123456789abcdef0123456789abcdef01234567"))
	assert.False(t, commitSHAPattern.MatchString("0123456789abcdef"))
	assert.False(t, commitSHAPattern.MatchString("0123456789ABCDEF0123456789ABCDEF01234567"))
	assert.False(t, commitSHAPattern.MatchString("HEAD"))
}
