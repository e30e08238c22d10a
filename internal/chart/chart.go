// Package chart converts a filtered row set into a drawing instruction
// set for the category bar chart: bar rectangles, axis gridlines, and
// labels. It is decoupled from any drawing surface; the web layer paints
// the instructions onto a canvas.
package chart

import (
	"kharcha/internal/core"
)

// Layout constants, in canvas pixels.
const (
	pad  = 28.0 // outer padding on all sides
	axis = 24.0 // gutter reserved for the y-axis labels
	// minBarHeight keeps zero-value categories visible so every label
	// stays anchored to a marker.
	minBarHeight = 2.0
	// barFraction and gapFraction split each category slot.
	barFraction = 0.72
	gapFraction = 0.28
)

// Bar is one category bar. ValueLabel is empty when the total is zero.
type Bar struct {
	Category   core.Category `json:"category"`
	Total      core.Money    `json:"total"`
	ValueLabel string        `json:"valueLabel,omitempty"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	W          float64       `json:"w"`
	H          float64       `json:"h"`
}

// Gridline is one horizontal axis line with its currency label.
type Gridline struct {
	Y     float64    `json:"y"`
	Value core.Money `json:"value"`
	Label string     `json:"label"`
}

// Chart is the full instruction set for one render.
type Chart struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Max    core.Money `json:"max"`
	Bars   []Bar      `json:"bars"`
	Grid   []Gridline `json:"grid"`
}

// Build computes per-category totals over the fixed enumeration (in
// enumeration order, not sorted by value) and lays out one bar per
// category plus gridlines at the 0%, 50%, and 100% proportions of the
// scale maximum. Pure: recomputed fully on every call.
func Build(rows []core.Record, width, height float64) Chart {
	cats := core.Categories()
	totals := make([]int64, len(cats))
	index := make(map[core.Category]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	for _, r := range rows {
		if i, ok := index[r.Category]; ok {
			totals[i] += r.Amount.Cents
		}
	}

	// Scale floor of one currency unit avoids division by zero when
	// every total is zero.
	maxCents := int64(100)
	for _, t := range totals {
		if t > maxCents {
			maxCents = t
		}
	}

	innerW := width - pad*2 - axis
	innerH := height - pad*2
	slot := innerW / float64(len(cats))
	barW := slot * barFraction
	gap := slot * gapFraction

	c := Chart{
		Width:  width,
		Height: height,
		Max:    core.Money{Cents: maxCents},
		Bars:   make([]Bar, 0, len(cats)),
	}

	for _, t := range []float64{0, 0.5, 1} {
		cents := int64(float64(maxCents)*t + 0.5)
		value := core.Money{Cents: cents}
		c.Grid = append(c.Grid, Gridline{
			Y:     pad + innerH - innerH*t,
			Value: value,
			Label: value.Rupees(),
		})
	}

	for i, cat := range cats {
		total := core.Money{Cents: totals[i]}
		h := minBarHeight
		if totals[i] > 0 {
			h = float64(totals[i]) / float64(maxCents) * innerH
			if h < minBarHeight {
				h = minBarHeight
			}
		}
		bar := Bar{
			Category: cat,
			Total:    total,
			X:        pad + axis + float64(i)*(barW+gap) + gap/2,
			Y:        pad + innerH - h,
			W:        barW,
			H:        h,
		}
		if totals[i] > 0 {
			bar.ValueLabel = total.Rupees()
		}
		c.Bars = append(c.Bars, bar)
	}

	return c
}
