package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testApp(input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{reader: bufio.NewReader(strings.NewReader(input)), out: out}, out
}

func TestGetSimpleText(t *testing.T) {
	a, out := testApp("  hello  \n")
	line, err := getSimpleText(a.reader, "Say something", a.out)
	require.NoError(t, err)
	require.Equal(t, "hello", line)
	require.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	a, _ := testApp("no newline")
	line, err := getSimpleText(a.reader, "p", a.out)
	require.NoError(t, err)
	require.Equal(t, "no newline", line)
}

func TestPromptStringField_KeepsValueOnEmpty(t *testing.T) {
	a, _ := testApp("\n")
	value := "unchanged"
	require.NoError(t, a.promptStringField("Name", &value))
	require.Equal(t, "unchanged", value)
}

func TestPromptStringField_Overrides(t *testing.T) {
	a, _ := testApp("new name\n")
	value := "old"
	require.NoError(t, a.promptStringField("Name", &value))
	require.Equal(t, "new name", value)
}

func TestPromptIntField(t *testing.T) {
	a, _ := testApp("4532\n")
	value := 0
	require.NoError(t, a.promptIntField("Port", &value))
	require.Equal(t, 4532, value)

	a, _ = testApp("oops\n")
	require.Error(t, a.promptIntField("Port", &value))
}

func TestPromptFloatField(t *testing.T) {
	a, _ := testApp("40.7\n")
	var value float64
	require.NoError(t, a.promptFloatField("Latitude", &value))
	require.InDelta(t, 40.7, value, 1e-9)
}

func TestPromptBoolField(t *testing.T) {
	a, _ := testApp("y\n")
	value := false
	require.NoError(t, a.promptBoolField("Enabled", &value))
	require.True(t, value)

	a, _ = testApp("no\n")
	require.NoError(t, a.promptBoolField("Enabled", &value))
	require.False(t, value)

	a, _ = testApp("\n")
	value = true
	require.NoError(t, a.promptBoolField("Enabled", &value))
	require.True(t, value)

	a, _ = testApp("maybe\n")
	require.Error(t, a.promptBoolField("Enabled", &value))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "5"})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5}, ids)

	_, err = parseIDs([]string{"x"})
	require.Error(t, err)

	ids, err = parseIDs(nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}
