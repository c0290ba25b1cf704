package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.verbose, zapcore.AddSync(&buf), "run-1")

			logger.Debug("debug line")
			logger.Error("failed to add label", zap.Int("pr", 42))
			_ = logger.Sync()

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, out, "ERROR")
			assert.Contains(t, out, "failed to add label")
			assert.Contains(t, out, `"pr": 42`)
			assert.Contains(t, out, `"run_id": "run-1"`)
		})
	}
}
