package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedMaxFloorsAtOne(t *testing.T) {
	require.Equal(t, 1.0, SharedMax([]float64{0, 0}, []float64{0}))
	require.Equal(t, 1.0, SharedMax())
	require.Equal(t, 450.0, SharedMax([]float64{150, 450}, []float64{20}))
}

func TestLinesRendersAllSeries(t *testing.T) {
	series := []Series{
		{Label: "Recebido", Values: []float64{100, 200}},
		{Label: "Entrada", Values: []float64{80, 90}},
		{Label: "Lucro", Values: []float64{20, 110}},
	}
	out, err := Lines(0, 0, series, []string{"Janeiro", "Fevereiro"}, LinesOpts{Title: "Resumo mensal"})
	require.NoError(t, err)
	html := string(out)
	require.Equal(t, 3, strings.Count(html, "stroke-width=\"2\""))
	require.Contains(t, html, "Janeiro")
	require.Contains(t, html, "aria-label=\"Lucro\"")
}

func TestLinesRejectsMismatchedLengths(t *testing.T) {
	series := []Series{{Label: "Recebido", Values: []float64{1}}}
	_, err := Lines(0, 0, series, []string{"a", "b"}, LinesOpts{})
	require.Error(t, err)
}

func TestBarsRendersBothBarsPerLabel(t *testing.T) {
	out, err := Bars(0, 0, []float64{150, 150}, []float64{150, 0}, []string{"10/01/2025", "10/02/2025"}, BarsOpts{})
	require.NoError(t, err)
	html := string(out)
	require.Equal(t, 4, strings.Count(html, "<rect"))
	require.Contains(t, html, "Previsto 10/01/2025")
	require.Contains(t, html, "Recebido 10/02/2025")
}

func TestBarsAllZeroStillRenders(t *testing.T) {
	out, err := Bars(0, 0, []float64{0}, []float64{0}, []string{"10/01/2025"}, BarsOpts{})
	require.NoError(t, err)
	require.Contains(t, string(out), "<rect")
}
