package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
	"github.com/specdata/deploy-master/internal/deployer"
	"github.com/specdata/deploy-master/internal/di"
	"github.com/urfave/cli/v2"
)

// DeployFlags returns the flags for the master deploy action.
func DeployFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "input",
			Usage: "Name of subfolder in ./input (e.g. 'newcustomer' for ./input/newcustomer)",
		},
		&cli.StringFlag{
			Name:  "input-dir",
			Usage: "Full path to directory containing configuration files",
		},
		&cli.StringFlag{
			Name:  "table-name",
			Usage: "DynamoDB table for download rules",
			Value: ruledao.DefaultTableName,
		},
		&cli.StringFlag{
			Name:  "enrichment-table-name",
			Usage: "DynamoDB table for enrichment rules",
			Value: enrichmentdao.DefaultTableName,
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region",
			Value:   "us-east-1",
			EnvVars: []string{"AWS_REGION"},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Compute all outputs and write them to local files instead of AWS",
		},
		&cli.BoolFlag{
			Name:  "skip-rules",
			Usage: "Skip download rules insertion (only deploy client config)",
		},
		&cli.BoolFlag{
			Name:  "skip-enrichment-rules",
			Usage: "Skip enrichment rules insertion",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "Root directory for dry-run output snapshots",
			Value: "dry-run-output",
		},
	}
}

// DeployAction returns the master deploy action: load, expand, and either
// write to AWS or snapshot locally.
func DeployAction(logger *zerolog.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		inputDir, err := resolveInputDir(c.String("input"), c.String("input-dir"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(inputDir); err != nil {
			return fmt.Errorf("input directory %q does not exist", inputDir)
		}

		container, err := di.New(c.String("region"),
			di.WithTables(c.String("table-name"), c.String("enrichment-table-name")),
			di.WithLogger(*logger),
		)
		if err != nil {
			return err
		}

		d := di.MustGet[*deployer.Deployer](container)
		summary, err := d.Deploy(c.Context, deployer.Options{
			InputDir:       inputDir,
			OutputDir:      c.String("output-dir"),
			DryRun:         c.Bool("dry-run"),
			SkipRules:      c.Bool("skip-rules"),
			SkipEnrichment: c.Bool("skip-enrichment-rules"),
		})
		if err != nil {
			return err
		}

		event := logger.Info().
			Str("client_id", summary.ClientID).
			Str("client_tag", summary.ClientTag).
			Int("parameters", summary.Parameters).
			Int("rules", summary.Rules).
			Int("enrichment_rules", summary.EnrichmentRules)
		for key, id := range summary.EnvironmentIDs {
			event = event.Str("env_"+key, id)
		}
		if summary.SnapshotDir != "" {
			event = event.Str("output_dir", summary.SnapshotDir)
		}
		event.Msg("deployment summary")
		return nil
	}
}

// resolveInputDir applies the --input / --input-dir contract: exactly one
// must be set, and --input is shorthand for ./input/{name}.
func resolveInputDir(input, inputDir string) (string, error) {
	switch {
	case input != "" && inputDir != "":
		return "", fmt.Errorf("only one of --input and --input-dir may be given")
	case input != "":
		return filepath.Join("input", input), nil
	case inputDir != "":
		return inputDir, nil
	default:
		return "", fmt.Errorf("one of --input or --input-dir is required")
	}
}
