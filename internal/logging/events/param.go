package events

import "github.com/seivan/hoard/internal/logging"

type ParamTracer struct{}

var Param = ParamTracer{}

func (ParamTracer) Prompt(name string) {
	logging.Trace("param.prompt", map[string]interface{}{"name": name})
}

func (ParamTracer) Resolved(distinct int) {
	logging.Trace("param.resolved", map[string]interface{}{"distinct": distinct})
}

func (ParamTracer) Cancelled(name string) {
	logging.Trace("param.cancel", map[string]interface{}{"name": name})
}
