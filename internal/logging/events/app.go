package events

import "github.com/seivan/hoard/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(resolved bool) {
	logging.Trace("app.exit", map[string]interface{}{"resolved": resolved})
}
