package main

import (
	"github.com/spf13/cobra"

	"igflash/internal/batch"
	errs "igflash/pkg/errors"
	"igflash/pkg/instagram"
)

var mediaCmd = &cobra.Command{
	Use:   "media <shortcode|link>...",
	Short: "Look up posts by shortcode or link",
	Example: `  igflash media CXJR5eOMXFV
  igflash media https://www.instagram.com/reel/CXJR5eOMXFV/ CwA1b2C3d4E`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMedia,
}

func init() {
	rootCmd.AddCommand(mediaCmd)
}

func runMedia(cmd *cobra.Command, args []string) error {
	jobs, err := mediaJobs(args)
	if err != nil {
		return err
	}
	return runLookups(cmd, jobs)
}

func mediaJobs(args []string) ([]batch.Job, error) {
	jobs := make([]batch.Job, 0, len(args))
	for _, arg := range args {
		code := instagram.ShortcodeFromURL(arg)
		if code == "" {
			return nil, errs.Newf(errs.ErrorTypeValidation, "%q is not a post shortcode or link", arg)
		}
		jobs = append(jobs, batch.Job{Kind: batch.KindMedia, Target: code})
	}
	return jobs, nil
}
