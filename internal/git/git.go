package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

var (
	// ErrNotRepository is returned when the directory is missing or has no
	// .git metadata. No git command is run in that case.
	ErrNotRepository = errors.New("not a git repository")

	// ErrTimeout is returned when a git command exceeds the configured timeout.
	ErrTimeout = errors.New("git command timed out")
)

// Client provides git operations for source repositories
type Client interface {
	// Refresh brings the working copy in dir up to date with its remote
	Refresh(ctx context.Context, dir string) error
}

// Options configures a ShellClient
type Options struct {
	DefaultBranch string
	Timeout       time.Duration
	ForceCheckout bool
	// ShowOutput streams git output to Output. Otherwise it is only
	// included in errors.
	ShowOutput bool
	Output     io.Writer
	SSHKeyFile string
}

// waitDelay bounds how long a killed git command may keep its output
// pipes open.
var waitDelay = 2 * time.Second

// ShellClient implements Client by shelling out to the git command
type ShellClient struct {
	opts   Options
	logger *slog.Logger
}

// NewShellClient creates a new git client that uses the git command
func NewShellClient(opts Options, logger *slog.Logger) *ShellClient {
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = "main"
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &ShellClient{opts: opts, logger: logger}
}

// Refresh switches dir to the default branch if needed, then fetches and
// pulls from origin. Every command runs with its own timeout.
func (c *ShellClient) Refresh(ctx context.Context, dir string) error {
	if err := checkRepository(dir); err != nil {
		return err
	}

	branch, err := c.CurrentBranch(ctx, dir)
	if err != nil {
		return err
	}

	target := c.opts.DefaultBranch
	if branch != target {
		c.logger.Info("switching branch", "dir", dir, "from", branch, "to", target)
		args := []string{"checkout"}
		if c.opts.ForceCheckout {
			args = append(args, "-f")
		}
		args = append(args, target)
		if _, err := c.run(ctx, dir, args...); err != nil {
			return fmt.Errorf("git checkout failed: %w", err)
		}
	}

	if _, err := c.run(ctx, dir, "fetch", "origin"); err != nil {
		return fmt.Errorf("git fetch failed: %w", err)
	}

	if _, err := c.run(ctx, dir, "pull", "origin", target); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}

	return nil
}

// CurrentBranch returns the branch checked out in dir. A detached HEAD
// yields an empty string.
func (c *ShellClient) CurrentBranch(ctx context.Context, dir string) (string, error) {
	if err := checkRepository(dir); err != nil {
		return "", err
	}
	out, err := c.run(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("git branch failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func checkRepository(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("%s has no .git: %w", dir, ErrNotRepository)
	}
	return nil
}

// run executes git with args in dir and returns its combined output. The
// error carries the quoted command line and the output.
func (c *ShellClient) run(ctx context.Context, dir string, args ...string) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// git hands its output pipes to helpers such as ssh. Kill the whole
	// group on timeout and stop waiting for the pipes after waitDelay.
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	c.configureAuth(cmd)

	line := shellquote.Join(append([]string{"git"}, args...)...)
	c.logger.Debug("running git", "dir", dir, "cmd", line)

	var buf bytes.Buffer
	if c.opts.ShowOutput {
		w := io.MultiWriter(&buf, c.opts.Output)
		cmd.Stdout = w
		cmd.Stderr = w
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	output := buf.String()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return output, fmt.Errorf("%s after %s: %w", line, c.opts.Timeout, ErrTimeout)
		}
		return output, fmt.Errorf("%s: %w: %s", line, err, strings.TrimSpace(output))
	}
	return output, nil
}

// configureAuth points ssh at the configured key. Without a key file the
// inherited environment, including any SSH agent socket, is used as is.
func (c *ShellClient) configureAuth(cmd *exec.Cmd) {
	cmd.Env = os.Environ()
	if c.opts.SSHKeyFile == "" {
		return
	}
	cmd.Env = append(cmd.Env, "GIT_SSH_COMMAND="+sshCommand(c.opts.SSHKeyFile))
}

// sshCommand builds the GIT_SSH_COMMAND value. The key path is shell-quoted
// to prevent injection via crafted filenames.
func sshCommand(keyFile string) string {
	return shellquote.Join("ssh", "-i", keyFile, "-o", "StrictHostKeyChecking=accept-new", "-F", "/dev/null")
}
