package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_FilterRules(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		defaultLevel Level
		want         string
	}{
		{"default only", Config{}, InfoLevel, "info+:*"},
		{
			"named loggers sorted",
			Config{Loggers: map[string]string{"proc": "debug", "fuel": "debug"}},
			WarnLevel,
			"warn+:* debug+:fuel* debug+:proc*",
		},
		{
			"extra filters",
			Config{Filters: []string{"error+:hud.durations"}},
			InfoLevel,
			"info+:* error+:hud.durations",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.FilterRules(tt.defaultLevel))
		})
	}
}
