package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	vidfitcmd "vidfit/internal/cli/cmd"
	"vidfit/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	err := vidfitcmd.Execute(ctx)
	if err == nil {
		return vidfitcmd.ExitOK
	}
	log := logging.New(os.Stdout, os.Stderr, false)
	var ee *vidfitcmd.ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			log.Error("%v", ee.Err)
		}
		return ee.Code
	}
	log.Error("%v", err)
	return vidfitcmd.ExitCLIError
}
