package main

import (
	"github.com/spf13/cobra"

	"igflash/internal/batch"
	errs "igflash/pkg/errors"
	"igflash/pkg/instagram"
)

var postsRequired int

var feedCmd = &cobra.Command{
	Use:   "feed <username>...",
	Short: "Fetch the most recent posts of users",
	Long: `Fetch the most recent posts of one or more users.

The posts embedded in the profile response are used first; the remainder is
paged in from the provider. A user with fewer posts than requested fails
with an insufficient_posts error.`,
	Example: `  igflash feed natgeo
  igflash feed natgeo nasa --posts 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntVarP(&postsRequired, "posts", "n", instagram.DefaultPostsRequired, "number of posts to fetch")
}

func runFeed(cmd *cobra.Command, args []string) error {
	if postsRequired < 1 {
		return errs.Newf(errs.ErrorTypeValidation, "--posts must be positive, got %d", postsRequired)
	}

	logins, err := parseLogins(args)
	if err != nil {
		return err
	}

	jobs := make([]batch.Job, len(logins))
	for i, login := range logins {
		jobs[i] = batch.Job{Kind: batch.KindFeed, Target: login, Posts: postsRequired}
	}
	return runLookups(cmd, jobs)
}
