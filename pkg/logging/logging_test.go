package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_ReplacesGlobals(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			logger, err := Init(env)

			require.NoError(t, err)
			require.Same(t, logger, zap.L())
		})
	}
}
