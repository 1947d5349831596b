package fetch_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/fetch"
)

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
}

func TestGit_Fetch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	origin := t.TempDir()
	gitRun(t, origin, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(origin, "main.go"), []byte("package main\n"), 0o644))
	gitRun(t, origin, "add", ".")
	gitRun(t, origin, "commit", "-q", "-m", "init")

	dest := filepath.Join(t.TempDir(), "clone")
	err := fetch.NewGit().Fetch(context.Background(), "file://"+origin, dest)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dest, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))

	err = fetch.NewGit().Fetch(context.Background(), "file://"+filepath.Join(origin, "missing"), filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}

func TestGit_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	script := filepath.Join(t.TempDir(), "slow-git")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755))
	git := fetch.NewGit(fetch.WithBinary(script), fetch.WithTimeout(50*time.Millisecond))
	err := git.Fetch(context.Background(), "https://github.com/user/repo.git", t.TempDir())
	assert.ErrorIs(t, err, fetch.ErrTimeout)
}

func TestGit_MissingBinary(t *testing.T) {
	git := fetch.NewGit(fetch.WithBinary(filepath.Join(t.TempDir(), "no-git")))
	err := git.Fetch(context.Background(), "https://github.com/user/repo.git", t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, fetch.ErrTimeout)
}
