package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/ericfisherdev/branchpanel/internal/adapter/driven/dashboard"
	githubadapter "github.com/ericfisherdev/branchpanel/internal/adapter/driven/github"
	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

type branchesOptions struct {
	dashboardURL string
	apiVersion   string
	repoURL      string
	namespace    string
	pipeline     string
	githubToken  string
	timezone     string
	timeout      time.Duration
	asJSON       bool
	noColor      bool
}

func branchesCommand() *cli.Command {
	var opts branchesOptions

	return &cli.Command{
		Name:    "branches",
		Aliases: []string{"b"},
		Usage:   "Print the latest PipelineRun per branch",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dashboard-url",
				Usage:       "Tekton dashboard base URL",
				EnvVars:     []string{"BRANCHPANEL_DASHBOARD_URL"},
				Value:       "http://localhost:9097",
				Destination: &opts.dashboardURL,
			},
			&cli.StringFlag{
				Name:        "api-version",
				Usage:       "Tekton API version",
				EnvVars:     []string{"BRANCHPANEL_TEKTON_API_VERSION"},
				Value:       "v1beta1",
				Destination: &opts.apiVersion,
			},
			&cli.StringFlag{
				Name:        "url",
				Aliases:     []string{"u"},
				Usage:       "Repository URL, e.g. https://github.com/org/repo",
				Required:    true,
				Destination: &opts.repoURL,
			},
			&cli.StringFlag{
				Name:        "namespace",
				Aliases:     []string{"n"},
				Usage:       "Namespace to search (default: all namespaces)",
				Destination: &opts.namespace,
			},
			&cli.StringFlag{
				Name:        "pipeline",
				Aliases:     []string{"p"},
				Usage:       "Only consider runs of this pipeline",
				Destination: &opts.pipeline,
			},
			&cli.StringFlag{
				Name:        "github-token",
				Usage:       "Token used to mark default and deleted branches of GitHub repositories",
				EnvVars:     []string{"BRANCHPANEL_GITHUB_TOKEN"},
				Destination: &opts.githubToken,
			},
			&cli.StringFlag{
				Name:        "timezone",
				Usage:       "IANA time zone for build times",
				EnvVars:     []string{"BRANCHPANEL_TIMEZONE"},
				Value:       "Local",
				Destination: &opts.timezone,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Request timeout",
				EnvVars:     []string{"BRANCHPANEL_FETCH_TIMEOUT"},
				Value:       30 * time.Second,
				Destination: &opts.timeout,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print rows as JSON",
				Destination: &opts.asJSON,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable coloured status output",
				EnvVars:     []string{"NO_COLOR"},
				Destination: &opts.noColor,
			},
		},
		Action: func(c *cli.Context) error {
			return runBranches(c, opts)
		},
	}
}

func runBranches(c *cli.Context, opts branchesOptions) error {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.timezone, err)
	}

	client, err := dashboard.NewClient(opts.dashboardURL, opts.apiVersion, opts.timeout, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	var host driven.RepoHost
	if opts.githubToken != "" {
		host = githubadapter.NewClient(opts.githubToken)
	}

	svc := application.NewBranchService(client, host, slog.Default())
	rows, err := svc.LatestBranches(c.Context, model.Webhook{
		Name:      "cli",
		URL:       opts.repoURL,
		Namespace: opts.namespace,
		Pipeline:  opts.pipeline,
	})
	var apiErr *driven.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("dashboard rejected the request: %s", application.ErrorMessage(err))
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		return writeJSON(c.App.Writer, rows, loc)
	}

	if opts.noColor {
		color.NoColor = true
	}
	return writeTable(c.App.Writer, rows, loc)
}

// writeTable prints rows as an aligned table. Status is the last column so
// colour escapes do not disturb the alignment.
func writeTable(w io.Writer, rows []model.BranchRow, loc *time.Location) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Unable to identify any PipelineRuns initiated by this webhook.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "BRANCH\tLAST BUILD TIME\tSTATUS")
	for _, row := range rows {
		branch := row.Branch
		if row.IsDefault {
			branch += " (default)"
		}
		if row.Deleted {
			branch += " (deleted)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", branch, model.FormatBuildTime(row.LastTransitionTime, loc), statusColor(row.Status()).Sprint(row.StatusReason))
	}

	return tw.Flush()
}

func statusColor(status model.RunStatus) *color.Color {
	switch status {
	case model.RunStatusPassing:
		return color.New(color.FgGreen, color.Bold)
	case model.RunStatusFailing:
		return color.New(color.FgRed, color.Bold)
	case model.RunStatusRunning:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgYellow)
	}
}

type jsonRow struct {
	Branch             string `json:"branch"`
	LastTransitionTime string `json:"last_transition_time"`
	Reason             string `json:"reason"`
	Status             string `json:"status"`
	PipelineRun        string `json:"pipeline_run"`
	Namespace          string `json:"namespace"`
	IsDefault          bool   `json:"is_default"`
	Deleted            bool   `json:"deleted"`
}

func writeJSON(w io.Writer, rows []model.BranchRow, loc *time.Location) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, jsonRow{
			Branch:             row.Branch,
			LastTransitionTime: model.FormatBuildTime(row.LastTransitionTime, loc),
			Reason:             row.StatusReason,
			Status:             string(row.Status()),
			PipelineRun:        row.RunName,
			Namespace:          row.Namespace,
			IsDefault:          row.IsDefault,
			Deleted:            row.Deleted,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
