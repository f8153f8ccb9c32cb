// Package main is a console client for an Azure OpenAI chat deployment
// grounded in an Azure AI Search index via "On Your Data".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"ragchat/pkg/config"
	"ragchat/pkg/logger"
	"ragchat/pkg/ragchat"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	color.Cyan("=== RAG Chat Client (Managed Identity) ===")
	fmt.Println()

	_ = godotenv.Load()

	settingsPath := flag.String("settings", "", "Path to a YAML settings file (takes precedence over environment variables)")
	verbose := flag.Bool("verbose", false, "Verbose request logging")
	flag.Parse()

	var settings config.Source
	if *settingsPath != "" {
		fileSource, err := config.LoadFile(*settingsPath)
		if err != nil {
			return err
		}
		settings = fileSource
	}

	cfg := config.Load(settings)
	if result := config.Validate(cfg); !result.Valid {
		fmt.Println("Please configure required settings in a .env file or environment variables.")
		return fmt.Errorf("missing settings: %s", strings.Join(result.Missing, ", "))
	}

	client, err := newClient(cfg, *verbose)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if args := flag.Args(); len(args) > 0 {
		return runOnce(ctx, client, strings.Join(args, " "), os.Stdout)
	}
	return runLoop(ctx, client, os.Stdin, os.Stdout)
}

// newClient wires the Azure CLI credential so the client authenticates with
// the caller's az login context rather than an API key.
func newClient(cfg config.Config, verbose bool) (*ragchat.Client, error) {
	credential, err := azidentity.NewAzureCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure cli credential: %w", err)
	}
	return ragchat.New(cfg,
		[]option.RequestOption{azure.WithTokenCredential(credential)},
		ragchat.WithLogger(logger.NewWriter(os.Stderr)),
		ragchat.WithVerbose(verbose),
	)
}
