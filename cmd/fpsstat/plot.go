package main

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"quark2d/fpslog"
	"quark2d/frametimer"
)

const (
	margin    = 40.0
	gridLines = 5
)

// timeline maps samples onto one time axis. The log is appended by every
// run and each run restarts at zero, so a timestamp that goes backwards
// continues after the previous run.
func timeline(samples []frametimer.Sample) []float64 {
	out := make([]float64, len(samples))
	offset, prev := 0.0, 0.0
	for i, s := range samples {
		if i > 0 && s.Timestamp < prev {
			offset += prev
		}
		prev = s.Timestamp
		out[i] = offset + s.Timestamp
	}
	return out
}

// axis maps [lo, hi] onto [a, b]. A degenerate range maps to the middle.
type axis struct {
	lo, hi float64
	a, b   float64
}

func (ax axis) at(v float64) float64 {
	if ax.hi <= ax.lo {
		return (ax.a + ax.b) / 2
	}
	return ax.a + (v-ax.lo)/(ax.hi-ax.lo)*(ax.b-ax.a)
}

// canvas is the part of *gg.Context the plot draws with.
type canvas interface {
	ClearWithColor(col gg.RGBA)
	SetRGB(r, g, b float64)
	SetLineWidth(width float64)
	SetDash(lengths ...float64)
	ClearDash()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawLine(x1, y1, x2, y2 float64)
	DrawCircle(x, y, r float64)
	Stroke() error
	Fill() error
}

func savePlot(path string, samples []frametimer.Sample, st fpslog.Stats, width, height int) error {
	dc := gg.NewContext(width, height)
	defer dc.Close()
	if err := drawPlot(dc, samples, st, width, height); err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// drawPlot renders FPS over time with a grid and the average as a dashed
// line. It stops at the first failed stroke or fill.
func drawPlot(dc canvas, samples []frametimer.Sample, st fpslog.Stats, width, height int) error {
	dc.ClearWithColor(gg.White)

	ts := timeline(samples)
	w, h := float64(width), float64(height)
	x := axis{lo: ts[0], hi: ts[len(ts)-1], a: margin, b: w - margin}
	lo, hi := math.Floor(st.Min*0.95), math.Ceil(st.Max*1.05)
	y := axis{lo: lo, hi: hi, a: h - margin, b: margin}

	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for i := 0; i <= gridLines; i++ {
		gx := margin + float64(i)*(w-2*margin)/gridLines
		gy := margin + float64(i)*(h-2*margin)/gridLines
		dc.DrawLine(gx, margin, gx, h-margin)
		dc.DrawLine(margin, gy, w-margin, gy)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1.5)
	dc.DrawLine(margin, h-margin, w-margin, h-margin)
	dc.DrawLine(margin, margin, margin, h-margin)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("axes: %w", err)
	}

	dc.SetRGB(0.9, 0.4, 0.1)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)
	dc.DrawLine(margin, y.at(st.Avg), w-margin, y.at(st.Avg))
	err := dc.Stroke()
	dc.ClearDash()
	if err != nil {
		return fmt.Errorf("average: %w", err)
	}

	dc.SetRGB(0.12, 0.47, 0.71)
	dc.SetLineWidth(2)
	if len(samples) == 1 {
		dc.DrawCircle(x.at(ts[0]), y.at(samples[0].FPS), 3)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("series: %w", err)
		}
		return nil
	}
	for i, s := range samples {
		px, py := x.at(ts[i]), y.at(s.FPS)
		if i == 0 {
			dc.MoveTo(px, py)
			continue
		}
		dc.LineTo(px, py)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("series: %w", err)
	}
	return nil
}
