// Package commands implements the CLI commands for the trls build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/frap129/trls-sub000/internal/build"
	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CLI represents the command line interface for trls.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	BuildBuilder(ctx context.Context, overrides domain.Overrides) error
	BuildRootfs(ctx context.Context, overrides domain.Overrides) error
	Run(ctx context.Context, overrides domain.Overrides, args []string) error
	Clean(ctx context.Context, overrides domain.Overrides) error
	Update(ctx context.Context, overrides domain.Overrides) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "trls",
		Short:         "A container build system for multi-stage builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringSlice("builder-stages", nil, "Comma delimited list of the builder image stages to build")
	flags.StringSlice("rootfs-stages", nil, "Comma delimited list of the rootfs image stages to build")
	flags.String("builder-tag", "", "Name of the tag to use for the builder container")
	flags.String("rootfs-tag", "", "Name of the tag to use for the rootfs container")
	flags.String("rootfs-base", "", "Base image for the first rootfs stage")
	flags.Bool("podman-build-cache", false, "Enable/Disable the podman build cache")
	flags.Bool("auto-clean", false, "Remove intermediate images after a successful build")
	flags.BoolP("quiet", "q", false, "Capture build output instead of streaming it")
	flags.String("pacman-cache", "", "Path to a persistent pacman package cache")
	flags.String("aur-cache", "", "Path to a persistent AUR package build cache")
	flags.String("src-dir", "", "Path to the directory with Containerfiles and setup files")
	flags.String("hooks-dir", "", "Path to the directory with build hooks")
	flags.StringSlice("extra-contexts", nil, "Comma delimited list of container build contexts")
	flags.StringSlice("extra-mounts", nil, "Comma delimited list of directories or files to bind mount")
	flags.String("config", "", "Path to the configuration file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newBuildBuilderCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// overrides collects every explicitly set global flag into a domain.Overrides.
// Unchanged flags stay nil so the configuration file and defaults apply.
func (c *CLI) overrides() domain.Overrides {
	flags := c.rootCmd.PersistentFlags()

	o := domain.Overrides{}
	if flags.Changed("builder-stages") {
		o.BuilderStages, _ = flags.GetStringSlice("builder-stages")
	}
	if flags.Changed("rootfs-stages") {
		o.RootfsStages, _ = flags.GetStringSlice("rootfs-stages")
	}
	stringOverride(flags, "builder-tag", &o.BuilderTag)
	stringOverride(flags, "rootfs-tag", &o.RootfsTag)
	stringOverride(flags, "rootfs-base", &o.RootfsBase)
	stringOverride(flags, "pacman-cache", &o.PacmanCache)
	stringOverride(flags, "aur-cache", &o.AurCache)
	stringOverride(flags, "src-dir", &o.SrcDir)
	stringOverride(flags, "hooks-dir", &o.HooksDir)
	if flags.Changed("podman-build-cache") {
		v, _ := flags.GetBool("podman-build-cache")
		o.PodmanBuildCache = &v
	}
	o.AutoClean, _ = flags.GetBool("auto-clean")
	o.Quiet, _ = flags.GetBool("quiet")
	if flags.Changed("extra-contexts") {
		o.ExtraContexts, _ = flags.GetStringSlice("extra-contexts")
	}
	if flags.Changed("extra-mounts") {
		o.ExtraMounts, _ = flags.GetStringSlice("extra-mounts")
	}
	o.ConfigPath, _ = flags.GetString("config")

	return o
}

func stringOverride(flags *pflag.FlagSet, name string, dst **string) {
	if !flags.Changed(name) {
		return
	}
	v, _ := flags.GetString(name)
	*dst = &v
}
