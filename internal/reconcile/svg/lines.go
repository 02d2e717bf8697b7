package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Lines renders a multi-series line chart. Every series shares one vertical
// scale derived from the maximum value across all of them.
func Lines(width, height int, series []Series, labels []string, opts LinesOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("svg: series %q length must match labels", s.Label)
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := SharedMax(seriesValues(series)...)
	scale := chartHeight / maxVal

	step := 0.0
	if len(labels) > 1 {
		step = chartWidth / float64(len(labels)-1)
	}

	titleID := makeID(opts.Title, "lines-title")
	descID := makeID(opts.Title, "lines-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Line chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Monthly trend"))))

	writeGrid(&b, padding, chartWidth, chartHeight, tickCount, maxVal, axisColor, gridColor)
	writeAxes(&b, padding, chartWidth, chartHeight, axisColor)

	for si, s := range series {
		color := s.Color
		if color == "" {
			color = defaultLineColors[si%len(defaultLineColors)]
		}
		var path strings.Builder
		for i, value := range s.Values {
			x := padding + chartWidth/2
			if len(labels) > 1 {
				x = padding + float64(i)*step
			}
			y := padding + chartHeight - value*scale
			if i == 0 {
				path.WriteString(fmt.Sprintf("M%.2f %.2f", x, y))
			} else {
				path.WriteString(fmt.Sprintf(" L%.2f %.2f", x, y))
			}
		}
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\" aria-label=\"%s\"></path>",
			path.String(), color, template.HTMLEscapeString(s.Label)))
	}

	writeXLabels(&b, labels, padding, chartWidth, chartHeight, axisColor, len(labels) > 1, step)

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// SharedMax returns the largest value across all series, never below 1.
func SharedMax(series ...[]float64) float64 {
	maxVal := 1.0
	for _, values := range series {
		for _, v := range values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

func seriesValues(series []Series) [][]float64 {
	out := make([][]float64, len(series))
	for i, s := range series {
		out[i] = s.Values
	}
	return out
}

func writeGrid(b *strings.Builder, padding, chartWidth, chartHeight float64, tickCount int, maxVal float64, axisColor, gridColor string) {
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := padding + chartHeight - ratio*chartHeight
		value := maxVal * ratio
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}
}

func writeAxes(b *strings.Builder, padding, chartWidth, chartHeight float64, axisColor string) {
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-hidden=\"true\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding+chartHeight, padding+chartWidth, padding+chartHeight))
	b.WriteString("</g>")
}

func writeXLabels(b *strings.Builder, labels []string, padding, chartWidth, chartHeight float64, axisColor string, spread bool, step float64) {
	for i, label := range labels {
		x := padding + chartWidth/2
		if spread {
			x = padding + float64(i)*step
		}
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			x, padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if math.Abs(v-math.Round(v)) < 1e-9 {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}
