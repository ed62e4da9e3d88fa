package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	logLevel     string
	apiKey       string
	apiHost      string
	cacheBackend string
	redisAddr    string
	concurrency  int
	compact      bool
	quiet        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igflash",
	Short: "Cached Instagram lookups through a proxy API",
	Long: `igflash fetches Instagram posts, profiles and feeds through a RapidAPI
proxy and prints them as JSON.

Successful lookups are cached for the configured TTL. Missing posts and
profiles are remembered for a shorter time so repeated lookups do not reach
the provider. Failed provider responses are recorded to a JSON-lines file.

Several targets can be given at once; they are looked up concurrently.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newPrinter(rootCmd).Error("igflash", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.config/igflash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "RapidAPI key (default from IGFLASH_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&apiHost, "api-host", "", "RapidAPI host")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "cache backend (memory, redis)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "redis address for the redis cache backend")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 3, "number of concurrent lookups")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "print compact JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress status output except errors")

	rootCmd.SetVersionTemplate(`igflash {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetErr(os.Stderr)
}
