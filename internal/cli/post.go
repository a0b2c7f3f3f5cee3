package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reqpipe/reqpipe/pipeline"
)

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Make a POST request to the specified URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headers, _ := cmd.Flags().GetStringArray("header")
		expect, _ := cmd.Flags().GetStringArray("expect")
		data, _ := cmd.Flags().GetString("data")
		dataFile, _ := cmd.Flags().GetString("data-file")
		contentType, _ := cmd.Flags().GetString("content-type")

		opts, err := descriptorOptions(headers, expect)
		if err != nil {
			fail(err)
		}

		body := []byte(data)
		if dataFile != "" {
			body, err = os.ReadFile(dataFile)
			if err != nil {
				fail(fmt.Errorf("reading body file: %w", err))
			}
		}
		if len(body) > 0 {
			opts = append(opts, pipeline.WithBody(contentType, body))
		}

		desc, err := pipeline.NewDescriptor(http.MethodPost, args[0], opts...)
		if err != nil {
			fail(err)
		}

		client, err := newClient(newLogger())
		if err != nil {
			fail(err)
		}

		f := newFormatter(flagVerbose, flagNoColor)
		start := time.Now()

		r, err := pipeline.Await(cmd.Context(), client, desc, pipeline.Optional(pipeline.Bytes()))
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
	postCmd.Flags().StringArrayP("header", "H", nil, "Request header in \"Name: value\" form (repeatable)")
	postCmd.Flags().StringArray("expect", nil, "Acceptable response content type (repeatable, priority order)")
	postCmd.Flags().StringP("data", "d", "", "Request body")
	postCmd.Flags().String("data-file", "", "Read the request body from a file")
	postCmd.Flags().String("content-type", "application/json", "Content type of the request body")
}
