package events

import "github.com/seivan/hoard/internal/logging"

type GptTracer struct{}

var Gpt = GptTracer{}

func (GptTracer) Prompt(text string) {
	logging.Trace("gpt.prompt", map[string]interface{}{"text": text})
}

func (GptTracer) Result(template string) {
	logging.Trace("gpt.result", map[string]interface{}{"template": template})
}

func (GptTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("gpt.error", map[string]interface{}{"error": err.Error()})
}

func (GptTracer) KeyMissing() {
	logging.Trace("gpt.key-missing", nil)
}
