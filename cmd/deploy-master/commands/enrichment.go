package commands

import (
	"github.com/rs/zerolog"
	"github.com/specdata/deploy-master/internal/configset"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
	"github.com/specdata/deploy-master/internal/di"
	"github.com/specdata/deploy-master/internal/plan"
	"github.com/urfave/cli/v2"
)

// EnrichmentCommand returns the enrichment command for inserting enrichment
// rules standalone. Items must already carry full environment ids; use the
// root command to resolve environment key shorthands.
func EnrichmentCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "enrichment",
		Usage: "Insert enrichment rules into DynamoDB",
		Description: `Reads enrichment_rules.json from the input directory and inserts every
item. Items without a client_id inherit --client-id when given.

Example:
  deploy-master enrichment --input-dir ./input/acme --client-id acme-cid-1a2b3c4d`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input-dir", Usage: "Directory containing enrichment_rules.json", Required: true},
			&cli.StringFlag{Name: "client-id", Usage: "Default client_id for items that do not specify one"},
			&cli.StringFlag{Name: "table-name", Usage: "DynamoDB table name", Value: enrichmentdao.DefaultTableName},
			&cli.StringFlag{Name: "region", Usage: "AWS region", Value: "us-east-1", EnvVars: []string{"AWS_REGION"}},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show what would be inserted without writing"},
		},
		Action: func(c *cli.Context) error {
			rules, err := configset.LoadEnrichment(c.String("input-dir"))
			if err != nil {
				return err
			}

			items := plan.BuildEnrichment(rules, nil, c.String("client-id"))

			if c.Bool("dry-run") {
				for _, item := range items {
					logger.Info().
						Str("environment_id", item.EnvironmentID).
						Int("version", item.Version).
						Int("rules_json_length", len(item.RulesJSON)).
						Msg("would insert enrichment rule")
				}
				return nil
			}

			container, err := di.New(c.String("region"),
				di.WithTables(ruledao.DefaultTableName, c.String("table-name")),
				di.WithLogger(*logger),
			)
			if err != nil {
				return err
			}

			ctx := c.Context
			dao := di.MustGet[*enrichmentdao.DAO](container)
			if err := dao.TableExists(ctx); err != nil {
				return err
			}

			for _, item := range items {
				if err := dao.Put(ctx, enrichmentdao.Record(item)); err != nil {
					return err
				}
				logger.Info().
					Str("environment_id", item.EnvironmentID).
					Int("version", item.Version).
					Msg("inserted enrichment rule")
			}

			logger.Info().Int("rules", len(items)).Msg("enrichment insertion complete")
			return nil
		},
	}
}
