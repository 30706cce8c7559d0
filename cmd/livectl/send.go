package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <address> [args...]",
	Short: "Send a fire-and-forget OSC message",
	Example: `  livectl send /live/song/start_playing
  livectl send /live/song/set/tempo 128.0
  livectl send /live/track/set/name 0 "Drums"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		return c.Send(args[0], parseArgs(args[1:])...)
	},
}

// parseArgs maps CLI literals to OSC argument types: bools, then integers,
// then floats, falling back to strings. Prefix a value with "str:" to force
// a string (a track named "42" would otherwise parse as an integer).
func parseArgs(literals []string) []any {
	parsed := make([]any, 0, len(literals))
	for _, lit := range literals {
		parsed = append(parsed, parseArg(lit))
	}
	return parsed
}

func parseArg(lit string) any {
	if rest, ok := strings.CutPrefix(lit, "str:"); ok {
		return rest
	}
	if lit == "true" {
		return true
	}
	if lit == "false" {
		return false
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f
	}
	return lit
}

// formatArg renders one response argument for terminal output.
func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
