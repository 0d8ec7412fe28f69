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

// RulesCommand returns the rules command for inserting download rules against
// explicitly supplied identifiers, without running the full deployment.
func RulesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Insert download rules into DynamoDB using explicit ids",
		Description: `Reads download_rules.json from the input directory and inserts every
rule under the given client, environment and pipeline ids. The per-rule
pipeline field is ignored; use the root command for pipeline-filtered
deployment.

Examples:
  # Preview what would be inserted
  deploy-master rules --input-dir ./input/acme \
      --client-id acme-cid-1a2b3c4d --env-id acme-prod-5e6f7a8b \
      --pipeline-id acme-pipe-9c0d1e2f --dry-run

  # Insert into a non-default table
  deploy-master rules --input-dir ./input/acme \
      --client-id acme-cid-1a2b3c4d --env-id acme-prod-5e6f7a8b \
      --pipeline-id acme-pipe-9c0d1e2f --table-name my-rules`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "client-id", Usage: "Client ID", Required: true},
			&cli.StringFlag{Name: "env-id", Usage: "Environment ID", Required: true},
			&cli.StringFlag{Name: "pipeline-id", Usage: "Pipeline ID", Required: true},
			&cli.StringFlag{Name: "input-dir", Usage: "Directory containing download_rules.json", Required: true},
			&cli.StringFlag{Name: "table-name", Usage: "DynamoDB table name", Value: ruledao.DefaultTableName},
			&cli.StringFlag{Name: "region", Usage: "AWS region", Value: "us-east-1", EnvVars: []string{"AWS_REGION"}},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show what would be inserted without writing"},
		},
		Action: func(c *cli.Context) error {
			rules, err := configset.LoadRules(c.String("input-dir"))
			if err != nil {
				return err
			}

			items := plan.StandaloneRules(rules,
				c.String("client-id"), c.String("env-id"), c.String("pipeline-id"))

			if c.Bool("dry-run") {
				for _, item := range items {
					logger.Info().
						Str("rule_id", item.RuleID).
						Str("description", item.Description).
						Str("type", item.Type).
						Str("values", item.Values).
						Msg("would insert download rule")
				}
				return nil
			}

			container, err := di.New(c.String("region"),
				di.WithTables(c.String("table-name"), enrichmentdao.DefaultTableName),
				di.WithLogger(*logger),
			)
			if err != nil {
				return err
			}

			ctx := c.Context
			dao := di.MustGet[*ruledao.DAO](container)
			if err := dao.TableExists(ctx); err != nil {
				return err
			}

			for _, item := range items {
				if err := dao.Put(ctx, ruledao.Record(item)); err != nil {
					return err
				}
				logger.Info().Str("rule_id", item.RuleID).Msg("inserted download rule")
			}

			logger.Info().Int("rules", len(items)).Msg("rule insertion complete")
			return nil
		},
	}
}
