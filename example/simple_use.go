// A minimal session against a running Ableton Live with the AbletonOSC
// remote script loaded: read the tempo, nudge it, and watch tempo changes
// for a few seconds.
package main

import (
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"liveosc/client"
	"liveosc/message"
	"liveosc/registry"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	c, err := client.Connect(
		client.WithTimeout(2*time.Second),
		client.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer c.Close()

	result, err := c.Query("/live/song/get/tempo")
	if err != nil {
		log.Fatalf("is Live running with AbletonOSC loaded? %v", err)
	}
	tempo, err := result.Float(0)
	if err != nil {
		log.Fatalf("unexpected response shape: %v", err)
	}
	fmt.Printf("current tempo: %.1f BPM\n", tempo)

	err = c.Listen("/live/song/get/tempo", "/live/song/start_listen/tempo",
		registry.HandlerFunc(func(msg *message.Message) {
			if bpm, err := msg.Arguments.Float(0); err == nil {
				fmt.Printf("tempo changed: %.1f BPM\n", bpm)
			}
		}))
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	if err := c.Send("/live/song/set/tempo", tempo+5); err != nil {
		log.Fatalf("set tempo: %v", err)
	}

	time.Sleep(3 * time.Second)

	if err := c.Unlisten("/live/song/get/tempo", "/live/song/stop_listen/tempo"); err != nil {
		log.Fatalf("unlisten: %v", err)
	}
}
