package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/konkursant/portal/internal/review/aggregate"
	"github.com/konkursant/portal/internal/review/model"
)

func (a *app) summaryCommand() *cobra.Command {
	var projectIDs []int64

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the reviews of one or more projects",
		Example: `  konkursant-report summary --project 10
  konkursant-report summary -p 10 -p 11 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range projectIDs {
				if id <= 0 {
					return fmt.Errorf("invalid project ID %d", id)
				}
			}
			f, err := a.fetcher()
			if err != nil {
				return err
			}

			feeds, err := fetchProjects(cmd.Context(), f, projectIDs, a.cfg.Concurrency)
			if err != nil {
				return err
			}

			summaries := make([]aggregate.ProjectSummary, 0, len(projectIDs))
			for i, id := range projectIDs {
				schema := aggregate.SchemaFor(feeds[i], a.registry, a.schema)
				summaries = append(summaries, aggregate.Summarize(id, feeds[i], schema))
			}
			a.logger.Debugw("summaries built", "projects", len(summaries))

			if a.asJSON {
				return a.render.JSON(aggregate.Report{Projects: summaries})
			}
			return a.render.Summaries(summaries)
		},
	}

	cmd.Flags().Int64SliceVarP(&projectIDs, "project", "p", nil, "project ID (repeatable)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func (a *app) verifiedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verified",
		Short: "Summarize every project that has reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.fetcher()
			if err != nil {
				return err
			}

			records, err := f.FetchAllVerifiedReviews(cmd.Context())
			if err != nil {
				return err
			}

			summaries := aggregate.SummarizeFeed(records, a.registry, a.schema)
			a.logger.Debugw("verified feed summarized", "records", len(records), "projects", len(summaries))

			if a.asJSON {
				return a.render.JSON(aggregate.Report{Projects: summaries})
			}
			return a.render.Summaries(summaries)
		},
	}
}

// fetchProjects loads each project's records in parallel, keeping the order of ids.
// The first failure cancels the remaining fetches.
func fetchProjects(ctx context.Context, f model.Fetcher, ids []int64, limit int) ([][]model.ReviewRecord, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one project ID is required")
	}

	feeds := make([][]model.ReviewRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			records, err := f.FetchReviewsForProject(gctx, id)
			if err != nil {
				return fmt.Errorf("project %d: %w", id, err)
			}
			feeds[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feeds, nil
}
