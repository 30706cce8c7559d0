package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <address> [args...]",
	Short: "Send a query and print the response arguments",
	Example: `  livectl query /live/song/get/tempo
  livectl query /live/track/get/name 0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		result, err := c.Query(args[0], parseArgs(args[1:])...)
		if err != nil {
			return err
		}

		parts := make([]string, 0, len(result))
		for _, arg := range result {
			parts = append(parts, formatArg(arg))
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
		return nil
	},
}
