package main

import (
	"context"
	"os"

	"github.com/specdata/deploy-master/cmd/deploy-master/commands"
	"github.com/specdata/deploy-master/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "deploy-master",
		Usage: "Deploy client configuration, download rules, and enrichment rules",
		Description: `A one-shot deployment tool for client configurations.

Given a directory of declarative JSON (client.json, environments.json,
download_rules.json, enrichment_rules.json), it materializes the
configuration as SSM Parameter Store entries and DynamoDB records, or
previews the same payloads as local files with --dry-run.

Identifiers are derived deterministically from the configuration, so
re-running an unchanged deployment overwrites the same remote state.`,
		Flags:  commands.DeployFlags(),
		Action: commands.DeployAction(&logger),
		Commands: []*cli.Command{
			commands.RulesCommand(&logger),
			commands.EnrichmentCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
