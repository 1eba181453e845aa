// Package cmd implements the trackio-tui-install command line.
package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/trackio/trackio-tui-install/pkg/asset"
	"github.com/trackio/trackio-tui-install/pkg/config"
	"github.com/trackio/trackio-tui-install/pkg/httpclient"
	"github.com/trackio/trackio-tui-install/pkg/install"
	"github.com/trackio/trackio-tui-install/pkg/platform"
	"github.com/trackio/trackio-tui-install/pkg/release"
)

var (
	flagSystem  bool
	flagPre     bool
	flagVersion string
	flagDir     string
	flagDryRun  bool
	verbose     bool
	quiet       bool
)

// RootCmd is the single install command.
var RootCmd = &cobra.Command{
	Use:   "trackio-tui-install",
	Short: "Install the trackio-tui binary from GitHub releases",
	Long: `trackio-tui-install downloads the pre-built trackio-tui binary matching this
machine from the project's GitHub releases and places it on your PATH.

With no flags it installs the latest stable release to ~/.local/bin without
elevated privileges.`,
	Example: `  # Install the latest stable release
  trackio-tui-install

  # Install the newest release including pre-releases
  trackio-tui-install --pre

  # Install a specific tag system-wide
  trackio-tui-install --system --version v0.1.0`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.Default)
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else if quiet {
			log.SetLevel(log.ErrorLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
	RunE: runInstall,
}

// Execute runs the root command. Any error is terminal.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.SetHandler(cli.Default)
		log.WithError(err).Fatal("install failed")
	}
}

func init() {
	RootCmd.Flags().BoolVar(&flagSystem, "system", false, "Install to "+install.SystemBinDir+" (uses sudo)")
	RootCmd.Flags().BoolVar(&flagPre, "pre", false, "Resolve the newest release including pre-releases")
	RootCmd.Flags().StringVar(&flagVersion, "version", "", "Install exactly this release tag (requires a value; wins over --pre)")
	RootCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Installation directory")
	RootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Resolve and validate the download URL without installing")
	RootCmd.Flags().BoolVar(&verbose, "verbose", false, "Increase log verbosity")
	RootCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress output")
}

func runInstall(cmd *cobra.Command, args []string) error {
	// Usage errors were rejected during parsing; anything failing past
	// this point is a runtime error and repeating usage only buries it.
	cmd.SilenceUsage = true

	ctx := cmd.Context()

	// 1. Configuration: flags over the optional defaults file.
	defaults, err := config.LoadDefaults(config.DefaultsPath())
	if err != nil {
		return err
	}
	cfg := config.Resolve(config.Flags{
		Dir:     flagDir,
		System:  flagSystem,
		Version: flagVersion,
		Pre:     flagPre,
		DryRun:  flagDryRun,
	}, defaults)

	// 2. Platform: no network is touched for unsupported machines.
	osName, arch := platform.Host()
	target, err := platform.Resolve(osName, arch)
	if err != nil {
		return err
	}
	log.Infof("target: %s", target.Triple)

	// 3. Release tag.
	client := httpclient.NewGitHubClient()
	resolver, err := release.NewResolver(cfg.Repo, client)
	if err != nil {
		return err
	}
	tag, err := resolver.Resolve(ctx, release.Request{
		ExplicitVersion:   cfg.ExplicitVersion,
		IncludePrerelease: cfg.IncludePrerelease,
	})
	if err != nil {
		return err
	}
	log.Infof("release: %s", tag)

	// 4. Install.
	builder := asset.NewBuilder(cfg.Repo, config.BinaryName, target.Triple)
	assetURL, err := builder.DownloadURL(tag)
	if err != nil {
		return err
	}
	checksumURL, err := builder.ChecksumURL(tag)
	if err != nil {
		return err
	}

	destDir, err := install.ResolveDir(cfg.BinDir, cfg.System)
	if err != nil {
		return err
	}

	installer := install.New(destDir, cfg.System, config.BinaryName, client)

	if cfg.DryRun {
		log.Infof("validating %s", assetURL)
		if err := installer.ValidateURL(ctx, assetURL); err != nil {
			return err
		}
		log.Infof("would install %s %s to %s", config.BinaryName, tag, destDir)
		return nil
	}

	installed, err := installer.Run(ctx, assetURL, checksumURL)
	if err != nil {
		return err
	}

	log.Infof("installed %s %s to %s", config.BinaryName, tag, installed)
	if !install.OnSearchPath(destDir, os.Getenv("PATH")) {
		log.Warnf("%s is not on your PATH; add it to your shell profile", destDir)
	}
	return nil
}
