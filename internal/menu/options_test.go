package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  int
		ok    bool
	}{
		{"1", 7, 1, true},
		{" 7 ", 7, 7, true},
		{"8", 7, 0, false},
		{"0", 7, 0, false},
		{"-1", 7, 0, false},
		{"two", 7, 0, false},
		{"", 4, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChoice(tt.input, tt.max)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestOptionKeys(t *testing.T) {
	assert.Len(t, mainOptions, 7)
	assert.Equal(t, "menu_add_url", AddURL.Key())
	assert.Equal(t, "menu_exit", Exit.Key())
	assert.Equal(t, "settings_back", SettingsBack.Key())
	assert.Panics(t, func() { _ = MainOption(99).Key() })
}
