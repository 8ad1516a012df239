// Package cli implements konkursant-report, a terminal client that fetches review
// records from a running portal and prints their aggregates.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	appConfig "github.com/konkursant/portal/internal/config"
	"github.com/konkursant/portal/internal/review/gateway"
	"github.com/konkursant/portal/internal/review/model"
	pkgLogger "github.com/konkursant/portal/pkg/logger"
)

// app carries the state shared by the subcommands of one root command.
type app struct {
	v        *viper.Viper
	render   *Renderer
	cfg      Config
	logger   *zap.SugaredLogger
	registry *model.Registry
	schema   model.Schema
	asJSON   bool
}

// NewRootCommand builds the konkursant-report command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      newViper(),
		render: &Renderer{Out: out, ErrOut: errOut},
	}

	root := &cobra.Command{
		Use:   "konkursant-report",
		Short: "Print review score aggregates from a konkursant portal",
		Long: `konkursant-report fetches review records from a konkursant portal and prints
per-reviewer sums and averages, per-criterion averages and the project average.

Settings come from flags, KONKURSANT_* environment variables or a konkursant.yaml
config file, in that order of precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./konkursant.yaml or ~/.config/konkursant/konkursant.yaml)")
	flags.String("url", "", "portal base URL")
	flags.Int64("user-id", 0, "portal user ID to act as")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.String("schema-file", "", "YAML file with extra criterion schemas")
	flags.String("schema-version", "", "schema used for records without a version tag")
	flags.Int("concurrency", 0, "parallel project fetches")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.asJSON, "json", false, "print summaries as JSON")
	flags.Bool("no-color", false, "disable coloured output")

	for key, flag := range map[string]string{
		"url":            "url",
		"user_id":        "user-id",
		"timeout":        "timeout",
		"schema_file":    "schema-file",
		"schema_version": "schema-version",
		"concurrency":    "concurrency",
		"log_level":      "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(a.summaryCommand(), a.verifiedCommand(), a.schemasCommand())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	configPath, _ := cmd.Flags().GetString("config")
	if err := readConfigFile(a.v, configPath); err != nil {
		return err
	}

	logger, err := pkgLogger.NewWithConfig(appConfig.LoggerConfig{
		Level:  a.v.GetString("log_level"),
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger

	a.registry, err = model.LoadSchemas(a.v.GetString("schema_file"))
	if err != nil {
		return err
	}
	a.schema, err = a.registry.Schema(model.SchemaVersion(a.v.GetString("schema_version")))
	return err
}

// fetcher builds the portal client. Commands that never talk to the portal skip it.
func (a *app) fetcher() (model.Fetcher, error) {
	cfg, err := loadConfig(a.v)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	client, err := gateway.New(cfg.Portal, nil, a.logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *app) schemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the known criterion schemas",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.asJSON {
				versions := a.registry.Versions()
				schemas := make([]model.Schema, 0, len(versions))
				for _, v := range versions {
					s, err := a.registry.Schema(v)
					if err != nil {
						return err
					}
					schemas = append(schemas, s)
				}
				return a.render.JSON(model.SchemaResponse{Active: a.schema.Version, Schemas: schemas})
			}
			return a.render.Schemas(a.registry, a.schema.Version)
		},
	}
}

// Execute runs the root command until ctx is cancelled.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
