// Command dpmigrate migrates the APIC configuration of Palo Alto Networks
// device package 1.2 service graphs to device package 1.3.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaroslav/dpmigrate/cmd/dpmigrate/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
