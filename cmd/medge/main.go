// medge is the operator CLI for MarketEdge-Intelligence.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/turtacn/MarketEdge-Intelligence/internal/bootstrap"
	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/cli"
)

func main() {
	// --config is extracted ahead of cobra so that dependency wiring can
	// happen before the command tree runs.
	configPath, args := extractConfigFlag(os.Args[1:])

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	container, err := bootstrap.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	root := cli.NewRootCommand(cli.Dependencies{
		Engine:  container.Engine,
		Pricing: container.PricingStore,
		Logger:  container.Logger,
	})
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// extractConfigFlag pulls --config out of the arguments and returns the rest
// for cobra.
func extractConfigFlag(args []string) (string, []string) {
	var configPath string
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}
	return configPath, rest
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
