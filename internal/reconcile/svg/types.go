// Package svg renders the dashboard charts. All geometry is computed against
// a scale shared by every series in the chart, with a floor of 1 so an
// all-zero dataset still produces a valid viewport instead of dividing by
// zero.
package svg

// Series pairs a labelled metric with its values.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// LinesOpts customises the multi-line chart renderer.
type LinesOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// BarsOpts customises the forecast-versus-received bar renderer.
type BarsOpts struct {
	Title         string
	Description   string
	ForecastLabel string
	ReceivedLabel string
	ForecastColor string
	ReceivedColor string
	AxisColor     string
	GridColor     string
	Padding       float64
	TickCount     int
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 6
)

var defaultLineColors = []string{"#16a34a", "#2563eb", "#9333ea", "#f97316"}
