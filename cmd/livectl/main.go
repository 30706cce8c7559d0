// Command livectl is a thin operator CLI over the liveosc client: it sends
// raw OSC commands, runs one-shot queries, and tails change notifications
// from a running Ableton Live with the AbletonOSC remote script loaded.
package main

func main() {
	execute()
}
