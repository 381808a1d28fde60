package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

var (
	ezColor = color.RGBA{R: 0x00, G: 0x99, B: 0xff, A: 0xff}
	hyColor = color.RGBA{R: 0xff, G: 0x66, B: 0x00, A: 0xff}
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// FieldPlot builds a line plot of Ez, and Hy scaled by scaleHy when it is
// non-zero. Hy samples sit at half-integer positions.
func FieldPlot(snap fdtd.Snapshot, title string, scaleHy float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "cell"
	p.Y.Label.Text = "field"
	p.Add(plotter.NewGrid())

	ez := make(plotter.XYs, len(snap.Ez))
	for i, v := range snap.Ez {
		ez[i].X = float64(i)
		ez[i].Y = v
	}
	ezLine, err := plotter.NewLine(ez)
	if err != nil {
		return nil, fmt.Errorf("ez line: %w", err)
	}
	ezLine.Color = ezColor
	p.Add(ezLine)
	p.Legend.Add("Ez", ezLine)

	if scaleHy != 0 && len(snap.Hy) > 0 {
		hy := make(plotter.XYs, len(snap.Hy))
		for i, v := range snap.Hy {
			hy[i].X = float64(i) + 0.5
			hy[i].Y = v * scaleHy
		}
		hyLine, err := plotter.NewLine(hy)
		if err != nil {
			return nil, fmt.Errorf("hy line: %w", err)
		}
		hyLine.Color = hyColor
		p.Add(hyLine)
		p.Legend.Add("Hy", hyLine)
	}

	return p, nil
}

// WriteFieldPNG renders the snapshot as a PNG into w.
func WriteFieldPNG(w io.Writer, snap fdtd.Snapshot, title string, scaleHy float64) error {
	p, err := FieldPlot(snap, title, scaleHy)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveFieldPNG renders the snapshot into a file; the format follows the
// extension (png, svg, pdf).
func SaveFieldPNG(path string, snap fdtd.Snapshot, title string, scaleHy float64) error {
	p, err := FieldPlot(snap, title, scaleHy)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
