// tibphon segments Tibetan text and renders its phonetics, from the command line or as an
// HTTP server.
//
// Examples:
//
//	echo "བཀྲ་ཤིས་བདེ་ལེགས།" | tibphon segment
//	tibphon segment --strategy=one --sanskrit-mode=iast "ཨོཾ་ཨཱཿཧཱུྃ་"
//	tibphon serve --addr=:5000 --web=./web
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := NewCLI(flag.CommandLine).ExecuteContext(ctx)
	klog.Flush()
	cobra.CheckErr(err)
}
