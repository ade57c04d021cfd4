package events

import "github.com/seivan/hoard/internal/logging"

type SessionTracer struct{}

type SearchTracer struct{}

type EditTracer struct{}

var (
	Session = SessionTracer{}
	Search  = SearchTracer{}
	Edit    = EditTracer{}
)

func (SessionTracer) ModeChange(from, to string) {
	logging.Trace("session.mode", map[string]interface{}{"from": from, "to": to})
}

func (SessionTracer) Namespace(index int, name string) {
	logging.Trace("session.namespace", map[string]interface{}{"index": index, "name": name})
}

func (SessionTracer) Selection(index int) {
	logging.Trace("session.selection", map[string]interface{}{"index": index})
}

func (SessionTracer) Pick(namespace, name string) {
	logging.Trace("session.pick", map[string]interface{}{"namespace": namespace, "name": name})
}

func (SearchTracer) Append(query string, results int) {
	logging.Trace("search.append", map[string]interface{}{"query": query, "results": results})
}

func (SearchTracer) Backspace(query string, results int) {
	logging.Trace("search.backspace", map[string]interface{}{"query": query, "results": results})
}

func (SearchTracer) Cleared() {
	logging.Trace("search.clear", nil)
}

func (EditTracer) Begin(namespace, name string, fresh bool) {
	logging.Trace("edit.begin", map[string]interface{}{"namespace": namespace, "name": name, "fresh": fresh})
}

func (EditTracer) FieldCommit(field, value string) {
	logging.Trace("edit.field", map[string]interface{}{"field": field, "value": value})
}

func (EditTracer) Confirm(namespace, name string) {
	logging.Trace("edit.confirm", map[string]interface{}{"namespace": namespace, "name": name})
}

func (EditTracer) Cancel() {
	logging.Trace("edit.cancel", nil)
}
