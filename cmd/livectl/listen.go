package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"liveosc/message"
	"liveosc/registry"
)

var listenStart string
var listenStop string

var listenCmd = &cobra.Command{
	Use:   "listen <address>",
	Short: "Subscribe to an address and print notifications until interrupted",
	Long: `Subscribes locally to the given property address and, when --start is
given, also asks the remote to begin emitting its change notifications
(sending the matching --stop request on exit).`,
	Example: `  livectl listen /live/song/get/tempo \
      --start /live/song/start_listen/tempo \
      --stop /live/song/stop_listen/tempo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		addr := args[0]
		print := func(msg *message.Message) {
			parts := make([]string, 0, len(msg.Arguments))
			for _, arg := range msg.Arguments {
				parts = append(parts, formatArg(arg))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				time.Now().Format("15:04:05.000"), msg.Address, strings.Join(parts, " "))
		}

		if listenStart != "" {
			err = c.Listen(addr, listenStart, registry.HandlerFunc(print))
		} else {
			err = c.SubscribeFunc(addr, print)
		}
		if err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		if listenStop != "" {
			return c.Unlisten(addr, listenStop)
		}
		return nil
	},
}

func init() {
	listenCmd.Flags().StringVar(&listenStart, "start", "", "start_listen address to send on entry")
	listenCmd.Flags().StringVar(&listenStop, "stop", "", "stop_listen address to send on exit")
}
