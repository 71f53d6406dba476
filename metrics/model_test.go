package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/model"
)

func TestInstrumentModelRecordsCalls(t *testing.T) {
	inner := model.NewMockModel("m", "mock")
	inner.QueueTurn("first")
	inner.QueueTurn("second")

	collector := NewUsageCollector("s1", nil)
	wrapped := InstrumentModel(inner, collector)

	assert.Equal(t, "m", wrapped.Info().Name)

	for i := 0; i < 2; i++ {
		responses, errs := wrapped.Generate(context.Background(), model.Request{})
		for range responses {
		}
		for err := range errs {
			require.NoError(t, err)
		}
	}

	summary := collector.Summary()
	assert.Equal(t, 2, summary.ModelCalls)
}
