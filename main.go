package main

import (
	"os"

	"github.com/thenoetrevino/etapa/cmd"
	"github.com/thenoetrevino/etapa/internal/cli"
)

func main() {
	os.Exit(cli.ExitCodeFor(cmd.Execute()))
}
