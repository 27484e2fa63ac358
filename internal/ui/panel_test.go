package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "██░░░  40%", ProgressBar(2, 5, 5))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestPanel_MonoAlignsWideRunes(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() {
		SetColorForcing(false, false)
		SetTheme("classic")
	})

	var buf bytes.Buffer
	Panel(&buf, []string{"[x] Milk", "[ ] 牛乳", "[ ] Eggs!"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "+-----------+", lines[0])
	assert.Equal(t, "| [x] Milk  |", lines[1])
	assert.Equal(t, "| [ ] 牛乳  |", lines[2])
	assert.Equal(t, "| [ ] Eggs! |", lines[3])
	assert.Equal(t, "+-----------+", lines[4])
}

func TestC_Disabled(t *testing.T) {
	SetColorForcing(true, true)
	t.Cleanup(func() { SetColorForcing(false, false) })
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestC_Forced(t *testing.T) {
	SetColorForcing(true, false)
	t.Cleanup(func() { SetColorForcing(false, false) })
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))
}
