// Package cli implements the reqpipe command-line interface: ad-hoc
// get/post requests, YAML suite runs, and a small latency bench, all
// driven through the request pipeline.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"

	"github.com/reqpipe/reqpipe/pipeline"
)

var version = "0.1.0"

var (
	flagTimeout time.Duration
	flagVerbose bool
	flagNoColor bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "reqpipe",
	Short:   "A terminal HTTP client built on a typed request pipeline",
	Version: version,
	Long: `Reqpipe is a terminal HTTP client built on an asynchronous request
pipeline: typed descriptors, chainable parse stages, and three-way
task results. It covers ad-hoc requests, YAML-defined suites, and a
small latency bench.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output and debug logging")
	RootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(benchCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}

	return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:      level,
		NoColor:    flagNoColor,
		TimeFormat: time.Kitchen,
	}))
}

func newClient(logger *slog.Logger) (*pipeline.Client, error) {
	return pipeline.Build(
		pipeline.WithLogger(logger),
		pipeline.WithUserAgent("reqpipe/"+version),
	)
}

// descriptorOptions translates repeated --header and --expect flags
// into descriptor options. Headers use the "Name: value" form.
func descriptorOptions(headers, expect []string) ([]pipeline.DescriptorOption, error) {
	var opts []pipeline.DescriptorOption

	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q, want \"Name: value\"", h)
		}
		opts = append(opts, pipeline.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	if len(expect) > 0 {
		opts = append(opts, pipeline.WithExpect(expect...))
	}

	opts = append(opts, pipeline.WithTimeout(flagTimeout))

	return opts, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
