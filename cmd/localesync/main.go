package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/schaermu/localesync/internal/config"
	"github.com/schaermu/localesync/internal/errors"
	"github.com/schaermu/localesync/internal/git"
	"github.com/schaermu/localesync/internal/logging"
	"github.com/schaermu/localesync/internal/project"
	"github.com/schaermu/localesync/internal/prompt"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	basePath  string
	logLevel  string
	logFormat string

	// Selection and run flags shared by sync and mirror
	projectsFlag string
	listOnly     bool
	dryRun       bool
	assumeYes    bool
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		logging.NewPrinter(os.Stdout, os.Stderr).Error("%v", err)
	}
	os.Exit(errors.GetExitCode(err))
}

var rootCmd = &cobra.Command{
	Use:   "localesync",
	Short: "Synchronize translation files between language repositories and web projects",
	Long: `localesync keeps the locale directories of web projects in step with the
language repositories they are translated in.

It refreshes each selected language repository with git, copies the matching
translation files into the project's locale directory, compares key sets
across translation documents, and mirrors shared folders between sibling
front-end projects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "localesync %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/localesync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "override base_path from the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Add commands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(commonKeysCmd)
	rootCmd.AddCommand(keyUsageCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(versionCmd)
}

// addSelectionFlags registers the flags sync and mirror share.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&listOnly, "list", false, "list available projects and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be done without making changes")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

func setupLogger(w io.Writer) *slog.Logger {
	return logging.Setup(logLevel, logFormat, w)
}

func newPrinter(cmd *cobra.Command) *logging.Printer {
	return logging.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// newPrompter picks the TUI when both ends of the command are terminals.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)
	if inOK && outOK {
		return prompt.New(in, out)
	}
	return prompt.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// activePrompter is created on first use so every question of a run reads
// from the same buffered input.
var activePrompter prompt.Prompter

func prompterFor(cmd *cobra.Command) prompt.Prompter {
	if activePrompter == nil {
		activePrompter = newPrompter(cmd)
	}
	return activePrompter
}

// closePrompter releases the prompter of the finished run.
func closePrompter() {
	if activePrompter != nil {
		_ = activePrompter.Close()
		activePrompter = nil
	}
}

// newGitClient builds the git client for source refreshes.
var newGitClient = func(cfg *config.Config, out io.Writer, logger *slog.Logger) git.Client {
	return git.NewShellClient(git.Options{
		DefaultBranch: cfg.Git.DefaultBranch,
		Timeout:       cfg.Git.Timeout,
		ForceCheckout: cfg.Git.ForceCheckout,
		ShowOutput:    cfg.Git.ShowOutput,
		Output:        out,
		SSHKeyFile:    cfg.Git.SSHKeyFile,
	}, logger)
}

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	// Determine config file path
	configPath := cfgFile
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, errors.ConfigError("failed to locate config", err)
		}
		configPath = p
	}

	logger.Info("loading configuration", "path", configPath)

	cfg, err := config.Load(configPath, basePath)
	if err != nil {
		return nil, errors.ConfigError("failed to load config", err)
	}

	if err := cfg.CheckBasePath(); err != nil {
		return nil, errors.ConfigError("invalid base path", err)
	}

	logger.Debug("configuration loaded",
		"base_path", cfg.BasePath,
		"projects", len(cfg.Projects),
		"git_refresh", cfg.GitRefreshEnabled(),
		"extensions", cfg.Sync.Extensions)

	return cfg, nil
}

// selectProjects resolves the --projects flag or asks the operator. A nil
// result with a nil error means the operator quit and nothing should run.
func selectProjects(ctx context.Context, cmd *cobra.Command, title string, projects []project.Project, single bool) ([]project.Project, error) {
	if len(projects) == 0 {
		return nil, errors.NoSelection("no enabled projects configured")
	}

	if projectsFlag != "" {
		matched, unknown := project.ByNames(project.SplitList(projectsFlag), projects)
		if len(unknown) > 0 {
			return nil, errors.UnknownProjects(unknown)
		}
		if len(matched) == 0 {
			return nil, errors.NoSelection(project.ErrNoSelection.Error())
		}
		if single && len(matched) != 1 {
			return nil, errors.NoSelection("exactly one project must be given")
		}
		return matched, nil
	}

	selected, err := prompterFor(cmd).SelectProjects(ctx, title, projects, single)
	if err != nil {
		return nil, promptError(err)
	}
	return selected, nil
}

// confirm asks before changing files unless --yes was given.
func confirm(ctx context.Context, cmd *cobra.Command, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	ok, err := prompterFor(cmd).Confirm(ctx, question)
	if err != nil {
		return false, promptError(err)
	}
	return ok, nil
}

// promptError maps prompt outcomes to CLI errors. Quitting a prompt is not
// an error.
func promptError(err error) error {
	switch {
	case errors.Is(err, prompt.ErrAborted):
		return nil
	case errors.Is(err, prompt.ErrInterrupted):
		return errors.Interrupted(err)
	}
	return err
}

func printProjects(p *logging.Printer, projects []project.Project) {
	rows := make([][]string, 0, len(projects))
	for i, proj := range projects {
		rows = append(rows, []string{fmt.Sprint(i + 1), proj.Name, proj.SourcePath, proj.TargetPath})
	}
	p.Table([]string{"#", "Project", "Source", "Target"}, rows)
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
