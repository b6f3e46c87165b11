package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pipelined/rack/graph"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "list module kinds with their ports and parameters",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range graph.Kinds() {
			inputs, outputs, params := kind.Describe()
			fmt.Fprintln(cmd.OutOrStdout(), kind)
			for _, p := range inputs {
				fmt.Fprintf(cmd.OutOrStdout(), "  in  %-8s %s\n", p.Name, p.Signal)
			}
			for _, p := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "  out %-8s %s\n", p.Name, p.Signal)
			}
			names := make([]string, 0, len(params))
			for name := range params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  param %s\n", name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
