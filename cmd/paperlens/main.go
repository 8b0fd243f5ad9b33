// Command paperlens explores the structure of PDFs through a layout
// extraction backend.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/cli"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn(".env could not be loaded: %v", err)
	}

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
