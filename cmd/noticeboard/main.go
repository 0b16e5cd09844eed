package main

import (
	"noticeboard-migrate/cmd/noticeboard/commands"
	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(true)
	tel, err := telemetry.SetupFromEnv(ctx, "noticeboard")
	if err != nil {
		serviceutil.Fatal("failed to set up telemetry", err)
	}
	defer tel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
