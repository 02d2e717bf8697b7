package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders the receivables calendar as forecast-versus-received bar
// pairs. Both series share the same vertical scale.
func Bars(width, height int, forecast, received []float64, labels []string, opts BarsOpts) (template.HTML, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	if len(forecast) != len(labels) || len(received) != len(labels) {
		return "", fmt.Errorf("svg: series length must match labels")
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
	forecastColor := fallback(opts.ForecastColor, "#94a3b8")
	receivedColor := fallback(opts.ReceivedColor, "#16a34a")
	forecastLabel := fallback(opts.ForecastLabel, "Previsto")
	receivedLabel := fallback(opts.ReceivedLabel, "Recebido")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := SharedMax(forecast, received)
	scale := chartHeight / maxVal
	bottom := padding + chartHeight

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth / 3

	titleID := makeID(opts.Title, "bars-title")
	descID := makeID(opts.Title, "bars-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Forecast versus received"))))

	writeGrid(&b, padding, chartWidth, chartHeight, tickCount, maxVal, axisColor, gridColor)
	writeAxes(&b, padding, chartWidth, chartHeight, axisColor)

	for i, label := range labels {
		baseX := padding + float64(i)*groupWidth
		fh := forecast[i] * scale
		rh := received[i] * scale
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>",
			baseX+barWidth*0.3, bottom-fh, barWidth, fh, forecastColor,
			template.HTMLEscapeString(forecastLabel), template.HTMLEscapeString(label)))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>",
			baseX+barWidth*1.4, bottom-rh, barWidth, rh, receivedColor,
			template.HTMLEscapeString(receivedLabel), template.HTMLEscapeString(label)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			baseX+groupWidth/2, bottom+14, axisColor, template.HTMLEscapeString(label)))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
