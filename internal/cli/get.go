package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/reqpipe/reqpipe/pipeline"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Make a GET request to the specified URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headers, _ := cmd.Flags().GetStringArray("header")
		expect, _ := cmd.Flags().GetStringArray("expect")
		extract, _ := cmd.Flags().GetString("extract")

		opts, err := descriptorOptions(headers, expect)
		if err != nil {
			fail(err)
		}

		desc, err := pipeline.NewDescriptor(http.MethodGet, args[0], opts...)
		if err != nil {
			fail(err)
		}

		client, err := newClient(newLogger())
		if err != nil {
			fail(err)
		}

		f := newFormatter(flagVerbose, flagNoColor)
		start := time.Now()

		if extract != "" {
			r, err := pipeline.Await(cmd.Context(), client, desc, pipeline.Extract(extract))
			if err != nil {
				fail(err)
			}
			if rerr, _, failed := r.Failed(); failed {
				fmt.Print(f.FormatError(rerr))
				return
			}
			if v, _, ok := r.Succeeded(); ok {
				fmt.Println(v)
			}
			return
		}

		r, err := pipeline.Await(cmd.Context(), client, desc, pipeline.Bytes())
		if err != nil {
			fail(err)
		}

		if rerr, _, failed := r.Failed(); failed {
			fmt.Print(f.FormatError(rerr))
			return
		}
		if _, resp, ok := r.Succeeded(); ok {
			fmt.Print(f.FormatResponse(resp, time.Since(start)))
		}
	},
}

func init() {
	getCmd.Flags().StringArrayP("header", "H", nil, "Request header in \"Name: value\" form (repeatable)")
	getCmd.Flags().StringArray("expect", nil, "Acceptable response content type (repeatable, priority order)")
	getCmd.Flags().String("extract", "", "Print only the value at this JSON path")
}
