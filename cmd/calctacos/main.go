package main

import (
	"fmt"
	"os"

	"github.com/GabRuby/calcTacos/internal/cli"
	"github.com/GabRuby/calcTacos/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseServeFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg := config.LoadOrEnv_WithPath(flags.ConfigPath)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "calctacos: %v\n", err)
		os.Exit(1)
	}
}
