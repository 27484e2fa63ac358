package main

import (
	"os"

	"github.com/Makepad-fr/shoplist/internal/cli"
	"github.com/Makepad-fr/shoplist/internal/telemetry"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

func main() {
	if err := telemetry.Init(os.Getenv(telemetry.EnvDSN), cli.Version); err != nil {
		ui.Fail(os.Stderr, "telemetry: "+err.Error())
	}
	code := run()
	telemetry.Flush()
	os.Exit(code)
}

func run() int {
	defer telemetry.RecoverPanic()
	if err := cli.Execute(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	return 0
}
