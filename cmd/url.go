package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/hepbib/profile"
)

var urlCmd = &cobra.Command{
	Use:   "url <source> <id>",
	Short: "Print the catalog query URL for an identifier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := profile.LoadDefault()
		if err != nil {
			return err
		}
		res, err := registry.Resolve(profile.Kind(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.QueryURL)
		return nil
	},
}
