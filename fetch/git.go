package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single clone
const DefaultTimeout = 5 * time.Minute

// ErrTimeout is returned when clone exceeds its deadline
var ErrTimeout = errors.New("fetch timed out")

// Fetcher materializes a remote repository into a local directory
type Fetcher interface {
	Fetch(ctx context.Context, URL string, dest string) error
}

// Git represents shallow git clone fetcher
type Git struct {
	binary  string
	timeout time.Duration
	depth   int
	logger  *slog.Logger
}

// Fetch clones URL into dest, dest must not exist or be empty
func (g *Git) Fetch(ctx context.Context, URL string, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, g.binary, g.args(URL, dest)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	started := time.Now()
	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v after %s", ErrTimeout, URL, g.timeout)
	}
	if err != nil {
		return fmt.Errorf("failed to clone %v: %w: %s", URL, err, strings.TrimSpace(stderr.String()))
	}
	g.logger.Debug("repository cloned", slog.String("url", URL), slog.String("dest", dest), slog.Duration("elapsed", time.Since(started)))
	return nil
}

func (g *Git) args(URL, dest string) []string {
	args := []string{"clone"}
	if g.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(g.depth))
	}
	return append(args, "--single-branch", "--", URL, dest)
}

// NewGit creates git fetcher
func NewGit(options ...Option) *Git {
	ret := &Git{binary: "git", timeout: DefaultTimeout, depth: 1, logger: slog.Default()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
