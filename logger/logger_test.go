package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/andrewpaige1/studyflash-api/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "development", env: config.EnvDevelopment, wantDebug: true, wantInfo: true},
		{name: "production", env: config.EnvProduction, wantDebug: false, wantInfo: true},
		{name: "test", env: config.EnvTest, wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.env)
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantInfo, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
