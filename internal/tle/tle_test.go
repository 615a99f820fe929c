package tle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const issLine1 = "1 25544U 98067A   24079.07757601  .00016717  00000-0  30777-3 0  9994"
const issLine2 = "2 25544  51.6392 208.5119 0004223 284.8519 151.3236 15.49448108441679"
const noaaLine1 = "1 33591U 09005A   24079.51984954  .00000237  00000-0  15213-3 0  9999"
const noaaLine2 = "2 33591  99.0590 129.4294 0013810 229.9822 130.0161 14.12873555778952"

func TestParse_TwoSets(t *testing.T) {
	input := strings.Join([]string{
		"ISS (ZARYA)", issLine1, issLine2,
		"",
		"NOAA 19", noaaLine1, noaaLine2,
	}, "\n")

	sets, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	require.Equal(t, "ISS (ZARYA)", sets[0].Name)
	require.EqualValues(t, 25544, sets[0].NoradID)
	require.Equal(t, issLine1, sets[0].Line1)

	require.Equal(t, "NOAA 19", sets[1].Name)
	require.EqualValues(t, 33591, sets[1].NoradID)
}

func TestParse_Empty(t *testing.T) {
	sets, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, sets)
}

func TestParse_MissingLine2(t *testing.T) {
	_, err := Parse(strings.NewReader("ISS\n" + issLine1))
	require.Error(t, err)
}

func TestParse_OrphanLine1(t *testing.T) {
	_, err := Parse(strings.NewReader(issLine1 + "\n" + issLine2))
	require.Error(t, err)
}

func TestParse_BadChecksum(t *testing.T) {
	corrupted := issLine1[:68] + "0"
	_, err := Parse(strings.NewReader("ISS\n" + corrupted + "\n" + issLine2))
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestParse_WindowsLineEndings(t *testing.T) {
	input := "ISS\r\n" + issLine1 + "\r\n" + issLine2 + "\r\n"
	sets, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sets, 1)
}
