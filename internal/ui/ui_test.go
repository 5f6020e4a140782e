package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { _ = SetTheme("classic") })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "██████████ 100%", ProgressBar(3, 3, 10))
}

func TestSetTheme(t *testing.T) {
	plain(t)
	for _, name := range Themes() {
		require.NoError(t, SetTheme(name))
		assert.Equal(t, name, Current().Name)
	}
	require.NoError(t, SetTheme(""))
	assert.Equal(t, "classic", Current().Name)

	err := SetTheme("solarized")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solarized")
}

func TestPanelMono(t *testing.T) {
	plain(t)
	require.NoError(t, SetTheme("mono"))

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "c"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+----+", lines[0])
	assert.Equal(t, "| ab |", lines[1])
	assert.Equal(t, "| c  |", lines[2])
	assert.Equal(t, "+----+", lines[3])
}

func TestOKAndHint(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	OK(&buf, "added")
	Hint(&buf, "unchanged")
	assert.Equal(t, "✔ added\nunchanged\n", buf.String())
}

func TestSetColorMode(t *testing.T) {
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })
	for _, mode := range []string{"", ColorAuto, ColorAlways, ColorNever} {
		assert.NoError(t, SetColorMode(mode))
	}
	assert.Error(t, SetColorMode("sometimes"))
}
