package main

import (
	"github.com/spf13/cobra"

	"igflash/internal/batch"
	errs "igflash/pkg/errors"
	"igflash/pkg/instagram"
)

var includeFeed bool

var profileCmd = &cobra.Command{
	Use:   "profile <username>...",
	Short: "Look up user profiles",
	Example: `  igflash profile natgeo
  igflash profile @nasa https://www.instagram.com/natgeo/ --feed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolVar(&includeFeed, "feed", false, "include page info and the embedded timeline edges")
}

func runProfile(cmd *cobra.Command, args []string) error {
	logins, err := parseLogins(args)
	if err != nil {
		return err
	}

	jobs := make([]batch.Job, len(logins))
	for i, login := range logins {
		jobs[i] = batch.Job{Kind: batch.KindProfile, Target: login, IncludeFeed: includeFeed}
	}
	return runLookups(cmd, jobs)
}

// parseLogins normalises "@login", profile links and bare logins
func parseLogins(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		login := instagram.SanitizeUsername(arg)
		if !instagram.IsValidUsername(login) {
			return nil, errs.Newf(errs.ErrorTypeValidation, "%q is not a valid username", arg)
		}
		out = append(out, login)
	}
	return out, nil
}
