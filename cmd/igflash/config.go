package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igflash/pkg/config"
	errs "igflash/pkg/errors"
)

const exampleConfig = `# igflash configuration file
#
# Environment variables prefixed with IGFLASH_ override these values,
# for example IGFLASH_API_KEY or IGFLASH_CACHE_BACKEND.

provider:
  # RapidAPI key (required)
  key: "YOUR_RAPIDAPI_KEY"
  host: "instagram-scraper-api2.p.rapidapi.com"
  # How long successful lookups are cached
  ttl: 1h
  timeout: 20s
  # Timeout for feed pagination requests
  feed_timeout: 25s

cache:
  # memory or redis
  backend: memory
  max_entries: 10000
  # Missing posts and profiles are remembered under this prefix
  error_key_prefix: "scraper_error:"
  # Must be shorter than provider.ttl
  error_ttl: 10m
  redis:
    addr: "localhost:6379"
    password: ""
    db: 0
    prefix: "igflash:"

retry:
  max_attempts: 2
  delay: 500ms

rate_limit:
  # 0 disables the client-side throttle
  requests_per_minute: 0
  burst_size: 0

diagnostics:
  # Failed provider responses are appended here as JSON lines.
  # Default: $XDG_DATA_HOME/igflash/scraper_errors.jsonl
  errors_file: ""

logging:
  # debug, info, warn, error, disabled
  level: "info"
  # Optional JSON log file, rotated by size
  file: ""
  max_size: 100
  max_backups: 3
  max_age: 28
  compress: false

# Timezone for rate-limit reset times in scraper error logs
timezone: "UTC"

# Extra media type codes: photo, video, carousel or unknown
media_types: {}
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igflash configuration files.

Configuration is loaded from, in order of priority:
  - Command line flags
  - Environment variables (IGFLASH_*)
  - .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as 'igflash.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	path := configFile
	if path == "" {
		path = "igflash.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return errs.Newf(errs.ErrorTypeConfiguration, "configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return errs.Wrap(errs.ErrorTypeConfiguration, "failed to create configuration file", err)
	}

	printer.Success("Configuration file created: " + path)
	printer.Dim("Add your RapidAPI key, then run 'igflash config validate'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags())
	if err != nil {
		return err
	}

	display := *cfg
	display.Provider.Key = mask(display.Provider.Key)
	display.Cache.Redis.Password = mask(display.Cache.Redis.Password)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	newPrinter(cmd).Highlight("Current Configuration")
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load(configFile, commandLineFlags())
	if err != nil {
		return err
	}

	printer.Success("Configuration is valid")
	printer.Info("Provider", cfg.Provider.Host)
	printer.Info("Cache backend", cfg.Cache.Backend)
	printer.Info("Cache TTL", cfg.Provider.TTL.String())
	printer.Info("Error TTL", cfg.Cache.ErrorTTL.String())
	printer.Info("Retry", fmt.Sprintf("%d attempts, %s apart", cfg.Retry.MaxAttempts, cfg.Retry.Delay))
	if cfg.RateLimit.RequestsPerMinute > 0 {
		printer.Info("Rate limit", fmt.Sprintf("%d requests/minute", cfg.RateLimit.RequestsPerMinute))
	}
	return nil
}

// mask keeps the first and last four characters of a secret
func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) > 8:
		return secret[:4] + "..." + secret[len(secret)-4:]
	default:
		return "***"
	}
}
