package events

import "github.com/seivan/hoard/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Loaded(path string, count int) {
	logging.Trace("store.loaded", map[string]interface{}{"path": path, "count": count})
}

func (StoreTracer) Saved(path string, count int) {
	logging.Trace("store.saved", map[string]interface{}{"path": path, "count": count})
}

func (StoreTracer) Deleted(namespace, name string) {
	logging.Trace("store.deleted", map[string]interface{}{"namespace": namespace, "name": name})
}

func (StoreTracer) Reloaded(path string, count int) {
	logging.Trace("store.reloaded", map[string]interface{}{"path": path, "count": count})
}
