package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opsinstall/internal/state"
)

// listCmd prints the install ledger.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products installed with opsinstall",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.LoadState(cfg.StateFile)
		if err != nil {
			return err
		}
		if len(st.Installs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No installs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tVERSION\tENVIRONMENT\tSOURCE\tMODULEFILE\tINSTALLED")
		for _, rec := range st.Installs {
			source := rec.Source
			switch {
			case source == "":
				source = "-"
			case rec.Immutable:
				source += " (sealed)"
			}
			modulefile := rec.Descriptor
			if rec.Default {
				modulefile += " (default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.Product, rec.Version, rec.Environment, source, modulefile,
				rec.InstalledAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}
