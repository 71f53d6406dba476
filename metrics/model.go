package metrics

import (
	"context"

	"github.com/voxmesh/voxmesh/model"
)

// instrumentedModel wraps a model.Model and feeds token usage from every
// response chunk into a UsageCollector.
type instrumentedModel struct {
	inner     model.Model
	collector *UsageCollector
}

// InstrumentModel returns a model that records token usage on the given
// collector while delegating generation to the wrapped model.
func InstrumentModel(inner model.Model, collector *UsageCollector) model.Model {
	return &instrumentedModel{inner: inner, collector: collector}
}

func (m *instrumentedModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	responses, errs := m.inner.Generate(ctx, req)

	out := make(chan model.Response, cap(responses))
	go func() {
		defer close(out)
		for resp := range responses {
			if !resp.Partial {
				m.collector.RecordModelUsage(resp.Usage)
			}
			out <- resp
		}
	}()

	return out, errs
}

func (m *instrumentedModel) Info() model.Info { return m.inner.Info() }
