package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/idilsaglam/tada/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), cli.NewRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
