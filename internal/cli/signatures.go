package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gobeaver/magickit/signature"
)

// NewSignaturesCmd creates the signatures subcommand, which prints the
// signature table in match order.
func NewSignaturesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "List known magic-number signatures",
		Long: `List the signature table in match order. The first matching entry wins,
so specific patterns appear before the generic prefixes they share.

Custom signatures from --signatures are appended after the built-ins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := signature.Default()
			if file != "" {
				custom, err := signature.LoadFile(file)
				if err != nil {
					return err
				}
				table = table.Append(custom...)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "HEX\tTYPE\tCATEGORY\tEXTENSIONS\tDESCRIPTION")
			for _, sig := range table {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					sig.Hex, sig.Type, sig.Category, strings.Join(sig.Extensions, " "), sig.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "signatures", "", "Append signatures from a JSON `FILE`")

	return cmd
}
