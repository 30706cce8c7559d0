package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liveosc/client"
)

var (
	// Global flags
	cfgFile     string
	flagHost    string
	flagSend    int
	flagReceive int
	flagTimeout time.Duration
	verbose     bool

	// Shared state set during PersistentPreRunE
	cfg    *config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "livectl",
	Short: "Send, query, and tail OSC messages from Ableton Live",
	Long: `livectl talks to the AbletonOSC remote script over UDP.
It speaks raw OSC addresses, so anything the remote script exposes is
reachable: one-shot commands, property queries, and live-tailing of
change notifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Flags override the config file.
		if cmd.Flags().Changed("host") {
			cfg.Host = flagHost
		}
		if cmd.Flags().Changed("send-port") {
			cfg.SendPort = flagSend
		}
		if cmd.Flags().Changed("receive-port") {
			cfg.ReceivePort = flagReceive
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = flagTimeout
		}

		if verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
		} else {
			logger = zap.NewNop()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.livectl.yaml)")
	pf.StringVar(&flagHost, "host", client.DefaultHost, "Ableton Live host")
	pf.IntVar(&flagSend, "send-port", client.DefaultSendPort, "port AbletonOSC listens on")
	pf.IntVar(&flagReceive, "receive-port", client.DefaultReceivePort, "local port for responses")
	pf.DurationVar(&flagTimeout, "timeout", client.DefaultTimeout, "query timeout")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log client internals")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(listenCmd)
}

// dial opens a client from the effective configuration.
func dial() (*client.Client, error) {
	return client.Dial(cfg.Host, cfg.SendPort, cfg.ReceivePort,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger))
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
