package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in resume templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLAYOUT\tPREMIUM\tPHOTO")
		for _, s := range template.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", s.ID, s.Name, s.Layout, s.IsPremium, s.Photo)
		}
		return w.Flush()
	},
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the selectable fonts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tFAMILY\tPREMIUM")
		for _, o := range fonts.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", o.ID, o.Label, o.Family, o.Premium)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd, fontsCmd)
}
