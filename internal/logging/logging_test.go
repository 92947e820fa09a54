package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel log.Level
		wantJSON  bool
	}{
		{"debug text", "debug", "text", log.DebugLevel, false},
		{"warn json", " WARN ", "json", log.WarnLevel, true},
		{"unknown level", "loud", "", log.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Setup(tt.level, tt.format)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*log.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
	Setup("info", "text")
}
