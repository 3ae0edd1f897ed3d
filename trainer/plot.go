package trainer

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/metrics"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// SaveHoldoutPlot writes a predicted-vs-actual scatter of the held-out rows
// as a PNG, with the identity line for reference.
func SaveHoldoutPlot(path string, actual, predicted []float64, report metrics.Report) error {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return errors.NewDimensionError("SaveHoldoutPlot", len(actual), len(predicted), 0)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Held-out salary (RMSE %.2f, R2 %.3f)", report.RMSE, report.R2Score)
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "failed to build scatter")
	}
	s.GlyphStyle.Radius = vg.Points(2)

	lo := min(floats.Min(actual), floats.Min(predicted))
	hi := max(floats.Max(actual), floats.Max(predicted))
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "failed to build identity line")
	}
	identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(s, identity, plotter.NewGrid())

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render plot")
	}
	return model.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
