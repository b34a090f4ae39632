package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeyParams(t *testing.T) {
	m, err := parseKeyParams("lsbs=2,framesize=2048")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"lsbs": "2", "framesize": "2048"}, m)
}

func TestParseKeyParamsEmpty(t *testing.T) {
	m, err := parseKeyParams("")
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestParseKeyParamsRejectsMalformed(t *testing.T) {
	_, err := parseKeyParams("lsbs")
	require.Error(t, err)
}

func TestParseLimitBits(t *testing.T) {
	n, err := parseLimit("40b")
	require.NoError(t, err)
	require.Equal(t, 40, n)
}

func TestParseLimitBytes(t *testing.T) {
	n, err := parseLimit("5")
	require.NoError(t, err)
	require.Equal(t, 40, n)
}

func TestParseLimitEmptyMeansUnlimited(t *testing.T) {
	n, err := parseLimit("")
	require.NoError(t, err)
	require.Equal(t, -1, n)
}

func TestParseLimitRejectsNegative(t *testing.T) {
	_, err := parseLimit("-1")
	require.Error(t, err)
}

func TestParseLimitRejectsNonNumeric(t *testing.T) {
	_, err := parseLimit("abc")
	require.Error(t, err)
}
