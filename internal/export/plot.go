// Package export renders saved run data to image files.
package export

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TimeSeries plots a boundary series against simulation time and saves it
// to path; the format follows the file extension (.svg, .png, .pdf).
func TimeSeries(path, title, yLabel string, deltaT float64, series []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(series))
	for i, v := range series {
		pts[i].X = float64(i+1) * deltaT
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// Profile plots one spatial row (a snapshot of the whole line) against
// position and saves it to path.
func Profile(path, title, yLabel string, deltaZ float64, row []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "position [m]"
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(row))
	for i, v := range row {
		pts[i].X = float64(i) * deltaZ
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
