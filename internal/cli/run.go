package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run SUITE_FILE",
	Short: "Run a YAML-defined request suite",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		suite, err := LoadSuite(args[0])
		if err != nil {
			fail(err)
		}

		client, err := newClient(newLogger())
		if err != nil {
			fail(err)
		}

		f := newFormatter(flagVerbose, flagNoColor)
		if suite.Name != "" {
			fmt.Printf("Suite: %s\n", suite.Name)
		}

		failed := 0
		for _, req := range suite.Requests {
			name := req.Name
			if name == "" {
				name = req.Method + " " + req.URL
			}

			pass, detail := req.run(cmd.Context(), client)
			if !pass {
				failed++
			}
			fmt.Print(f.FormatPass(name, pass, detail))
		}

		fmt.Printf("\n%d/%d passed\n", len(suite.Requests)-failed, len(suite.Requests))
		if failed > 0 {
			os.Exit(1)
		}
	},
}
