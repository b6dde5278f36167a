// Command unbox provisions freshly unboxed smart relays.
//
// It scans for the access points unconfigured devices advertise, joins each
// one in turn and drives the device through network join, naming, firmware
// update, reboot and credential hardening, waiting for it to come back after
// every disruptive step. It also compiles switch and router sheets into IOS
// command lists and applies them over SSH.
//
// Usage:
//
//	unbox <command> [flags]
//
// Commands:
//
//	provision  Discover and provision every matching device
//	scan       List device access points in range
//	compile    Compile a switch or router sheet into commands
//	apply      Apply a command file over SSH
//	log        Inspect provisioning trace files
//	version    Print version information
//
// Examples:
//
//	# Provision using unbox.yaml in the current directory
//	unbox provision
//
//	# Ask before each device and keep a trace
//	unbox provision --interactive --trace run.ulog
//
//	# Compile a switch sheet
//	unbox compile switch core.csv -o switch_config.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mash-protocol/unbox-go/cmd/unbox/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
