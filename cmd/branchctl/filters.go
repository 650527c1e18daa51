package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// filtersCommand shows how a repository URL maps to dashboard label
// selectors and which git provider API would be consulted.
func filtersCommand() *cli.Command {
	var repoURL string

	return &cli.Command{
		Name:  "filters",
		Usage: "Print the label selectors and git provider derived from a repository URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Aliases:     []string{"u"},
				Usage:       "Repository URL",
				Required:    true,
				Destination: &repoURL,
			},
		},
		Action: func(c *cli.Context) error {
			filters, err := model.ParseRepoURL(repoURL)
			if err != nil {
				return err
			}

			w := c.App.Writer
			for _, selector := range filters.LabelSelectors() {
				fmt.Fprintln(w, selector)
			}

			provider, apiURL, err := model.DetectProvider(repoURL)
			switch {
			case errors.Is(err, model.ErrUnknownProvider):
				fmt.Fprintln(w, "provider: unknown")
			case err != nil:
				return err
			default:
				fmt.Fprintf(w, "provider: %s (%s)\n", provider, apiURL)
			}
			return nil
		},
	}
}
