package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/datasweep/internal/table"
)

const (
	chartRowLimit = 10
	chartBarWidth = 30
)

// renderChart draws one horizontal bar per series for each row, scaled to
// the largest value. Negative and missing values draw an empty bar.
func renderChart(ch table.Chart) string {
	if ch.Empty() {
		return UnselectedStyle.Render("No numeric columns to chart.")
	}

	var s strings.Builder
	for i, series := range ch.Series {
		style := SeriesStyles[i%len(SeriesStyles)]
		s.WriteString(style.Render("█ " + series.Name))
		s.WriteString("  ")
	}
	s.WriteString("\n\n")

	peak := ch.Max()
	labelWidth := 0
	for _, l := range ch.Labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	rows := len(ch.Labels)
	if rows > chartRowLimit {
		rows = chartRowLimit
	}
	for r := 0; r < rows; r++ {
		for i, series := range ch.Series {
			label := ""
			if i == 0 {
				label = ch.Labels[r]
			}
			value := "NaN"
			if !series.Missing[r] {
				value = strconv.FormatFloat(series.Values[r], 'g', 6, 64)
			}
			bar := SeriesStyles[i%len(SeriesStyles)].Render(strings.Repeat("█", barLength(series.Values[r], peak)))
			s.WriteString(fmt.Sprintf("%*s │%s %s\n", labelWidth, label, bar, value))
		}
	}
	if len(ch.Labels) > rows {
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("showing first %d of %d rows", rows, len(ch.Labels))))
	}
	return s.String()
}

func barLength(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	n := int(v/peak*chartBarWidth + 0.5)
	if n > chartBarWidth {
		n = chartBarWidth
	}
	return n
}
