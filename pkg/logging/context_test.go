package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmuni/munimap/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithRegion adds federative unit to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithRegion(ctx, "DF")

		// Extract logger and verify it has the region field
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithSnapshot adds snapshot path to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithSnapshot(ctx, "municipios-base.csv")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithOperation adds operation to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithOperation(ctx, "export")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithRunID stamps logger and context", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRunID(ctx, "1f1a0c9e")

		assert.Equal(t, "1f1a0c9e", logging.RunID(ctx))

		logging.Ctx(ctx).Info().Msg("run started")
		assert.True(t, tl.Contains("1f1a0c9e"))
	})

	t.Run("RunID returns empty without a run", func(t *testing.T) {
		assert.Empty(t, logging.RunID(context.Background()))
	})

	t.Run("WithFields adds custom fields to context", func(t *testing.T) {
		ctx := context.Background()
		fields := map[string]interface{}{
			"records": 5570,
			"file":    "out/municipios-DF.csv",
		}
		ctx = logging.WithFields(ctx, fields)

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("FromContext returns logger from context", func(t *testing.T) {
		ctx := context.Background()

		// First call should create a new logger
		logger1 := logging.FromContext(ctx)
		assert.NotNil(t, logger1)

		// Add region and get logger again
		ctx = logging.WithRegion(ctx, "RJ")
		logger2 := logging.FromContext(ctx)
		assert.NotNil(t, logger2)
	})

	t.Run("Ctx extracts logger from context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithRegion(ctx, "MG")

		logger := logging.Ctx(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("chaining context functions", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithRegion(ctx, "SP")
		ctx = logging.WithSnapshot(ctx, "municipios-novo.csv")
		ctx = logging.WithOperation(ctx, "diff")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})
}
