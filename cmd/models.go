package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lucen-labs/irreview/pkg/gemini"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List provider models that support generation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("models"); err != nil {
			return err
		}

		client := gemini.NewClient(cfg.Gemini.Key,
			gemini.WithBaseURL(cfg.Gemini.BaseURL))

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "models")
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDISPLAY NAME")
		for _, m := range models {
			if !m.SupportsGenerate() {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.DisplayName)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
