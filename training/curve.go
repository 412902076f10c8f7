package training

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// Curve はスケジュールを1からepochsまで評価した学習率の系列を返す
func Curve(s Schedule, epochs int) ([]float64, error) {
	if epochs < 1 {
		return nil, errors.NewValueError("training.Curve", "epochs must be at least 1")
	}
	rates := make([]float64, epochs)
	for i := range rates {
		rates[i] = s.Apply(i+1, Logs{})
	}
	// 不正なハイパーパラメータの組み合わせで曲線が破綻していないか検査する
	if err := errors.CheckNumericalStability("training.Curve", rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// SaveCurve はスケジュールの減衰曲線を描画して画像ファイルに保存する。
// 形式は拡張子（.png / .svg / .pdf）で決まる。
func SaveCurve(s Schedule, epochs int, path string) error {
	rates, err := Curve(s, epochs)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = s.Name()
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "learning rate"

	pts := make(plotter.XYs, len(rates))
	for i, r := range rates {
		pts[i].X = float64(i + 1)
		pts[i].Y = r
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "training: build decay curve")
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "training: save decay curve")
	}
	return nil
}
