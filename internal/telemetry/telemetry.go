// Package telemetry is the injected analytics capability: the wizard engine
// reports events through a Sink instead of reaching into ambient globals.
package telemetry

import (
	"log"
	"sort"
	"strings"
)

// Sink receives wizard lifecycle events. Implementations must be safe for
// concurrent use and must never block the caller meaningfully.
type Sink interface {
	Track(event string, props map[string]string)
}

// LogSink writes events to the standard logger.
type LogSink struct{}

func (LogSink) Track(event string, props map[string]string) {
	if len(props) == 0 {
		log.Printf("track %s", event)
		return
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+props[k])
	}
	log.Printf("track %s %s", event, strings.Join(pairs, " "))
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Track(string, map[string]string) {}
