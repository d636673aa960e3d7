package styles

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "Villa", 10, "Villa"},
		{"exact", "Villa", 5, "Villa"},
		{"ellipsis", "Sea view villa", 8, "Sea v..."},
		{"tiny", "Sea view", 2, "Se"},
		{"zero", "Sea view", 0, ""},
		{"wide runes", "日本語の家", 7, "日本..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWithEllipsis(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, ansi.StringWidth(got), tt.max)
		})
	}
}
