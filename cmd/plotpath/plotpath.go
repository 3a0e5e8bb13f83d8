package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/fogleman/gg"

	"github.com/dashmouse-team/dashmouse/go-controller/pkg/poselog"
)

// Renders the x/y trajectory from a recorded pose log to a PNG.
func main() {
	dbPath := flag.String("db", "/var/lib/dashmouse/poses.db", "pose log to plot")
	outPath := flag.String("out", "path.png", "output image")
	size := flag.Int("size", 800, "image size in pixels")
	flag.Parse()

	store, err := poselog.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	samples, err := store.Samples()
	if err != nil {
		log.Fatal(err)
	}
	if len(samples) < 2 {
		log.Fatal("Not enough samples to plot")
	}

	minX, maxX := samples[0].XMM, samples[0].XMM
	minY, maxY := samples[0].YMM, samples[0].YMM
	for _, s := range samples {
		minX = math.Min(minX, s.XMM)
		maxX = math.Max(maxX, s.XMM)
		minY = math.Min(minY, s.YMM)
		maxY = math.Max(maxY, s.YMM)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}

	const margin = 40
	scale := (float64(*size) - 2*margin) / span
	toPx := func(s poselog.Sample) (float64, float64) {
		// Robot +y is to the left; flip it so the plot reads like a map.
		return margin + (s.XMM-minX)*scale,
			float64(*size) - margin - (s.YMM-minY)*scale
	}

	dc := gg.NewContext(*size, *size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.15, 0.35, 0.8)
	dc.SetLineWidth(2)
	for _, s := range samples {
		dc.LineTo(toPx(s))
	}
	dc.Stroke()

	// Green dot at the start, red at the end.
	sx, sy := toPx(samples[0])
	dc.SetRGB(0.1, 0.7, 0.2)
	dc.DrawCircle(sx, sy, 5)
	dc.Fill()
	ex, ey := toPx(samples[len(samples)-1])
	dc.SetRGB(0.8, 0.15, 0.15)
	dc.DrawCircle(ex, ey, 5)
	dc.Fill()

	if err := dc.SavePNG(*outPath); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %s: %d samples, x %.0f..%.0fmm, y %.0f..%.0fmm\n",
		*outPath, len(samples), minX, maxX, minY, maxY)
}
