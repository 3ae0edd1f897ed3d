// Package linear は最小二乗法による線形回帰モデルを提供する。
package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/core/parallel"
	"github.com/YuminosukeSato/salarygo/metrics"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

const (
	// ModelType は ModelWeights に記録されるモデル名
	ModelType = "LinearRegression"
	// WeightsVersion は ModelWeights のレイアウトのバージョン
	WeightsVersion = "1"

	// この行数以下では中心化を逐次処理する
	parallelThreshold = 1000
)

// LinearRegression は線形回帰モデル
//
// Fit は X と y を中心化した上で特異値分解により最小ノルムの最小二乗解を求め、
// 切片を平均から復元する。one-hot 列と切片が共線になるような
// ランク落ちの計画行列でも解が一意に決まる。
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
	Rank      int           // 中心化した計画行列の数値ランク

	fitIntercept bool
	rcond        float64
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression()
//	err := lr.Fit(X, y)
//	pred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	lr.Reset()

	yRaw := mat.Col(nil, 0, y)
	if err := errors.CheckNumericalStability("LinearRegression.Fit", yRaw); err != nil {
		return err
	}

	xMean := make([]float64, c)
	var yMean float64
	if lr.fitIntercept {
		col := make([]float64, r)
		for j := 0; j < c; j++ {
			mat.Col(col, j, X)
			xMean[j] = stat.Mean(col, nil)
		}
		yMean = stat.Mean(yRaw, nil)
	}

	// 中心化した X と y
	Xc := mat.NewDense(r, c, nil)
	yc := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				Xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.Set(i, 0, yRaw[i]-yMean)
		}
	})
	if err := errors.CheckNumericalStability("LinearRegression.Fit", Xc.RawMatrix().Data); err != nil {
		return err
	}

	var svd mat.SVD
	if !svd.Factorize(Xc, mat.SVDThin) {
		return errors.NewModelError("LinearRegression.Fit", "SVD did not converge", errors.ErrSingularMatrix)
	}

	rcond := lr.rcond
	if rcond <= 0 {
		rcond = eps * float64(max(r, c))
	}
	rank := svd.Rank(rcond)

	coef := make([]float64, c)
	if rank > 0 {
		var sol mat.Dense
		svd.SolveTo(&sol, yc, rank)
		mat.Col(coef, 0, &sol)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", coef); err != nil {
		return err
	}

	lr.Weights = mat.NewVecDense(c, coef)
	lr.Intercept = 0
	if lr.fitIntercept {
		lr.Intercept = yMean - floats.Dot(xMean, coef)
	}
	lr.NFeatures = c
	lr.Rank = rank
	lr.SetFitted()
	return nil
}

// eps は float64 の計算機イプシロン
var eps = math.Nextafter(1, 2) - 1

// Predict は入力データに対する予測を行う (n_samples × 1)
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Predict", "empty data", errors.ErrEmptyData)
	}

	// y = X * weights + intercept
	var pred mat.VecDense
	pred.MulVec(X, lr.Weights)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, pred.AtVec(i)+lr.Intercept)
	}
	return out, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	rp, _ := yPred.Dims()
	if r != rp {
		return 0, errors.NewDimensionError("LinearRegression.Score", rp, r, 0)
	}
	return metrics.R2Score(
		mat.NewVecDense(r, mat.Col(nil, 0, y)),
		mat.NewVecDense(rp, mat.Col(nil, 0, yPred)),
	)
}

// ExportWeights は学習済みの係数と切片をシリアライズ可能な形で返す
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "ExportWeights")
	}
	return &model.ModelWeights{
		ModelType:    ModelType,
		Version:      WeightsVersion,
		Coefficients: lr.GetWeights(),
		Intercept:    lr.Intercept,
		Hyperparameters: map[string]interface{}{
			"fit_intercept": lr.fitIntercept,
			"rcond":         lr.rcond,
			"rank":          lr.Rank,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights は ExportWeights の出力からモデルを復元する
func (lr *LinearRegression) ImportWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValidationError("weights", "is required", nil)
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != ModelType {
		return errors.NewSchemaError("model_type", ModelType, w.ModelType)
	}
	if w.Version != WeightsVersion {
		return errors.NewSchemaError("weights.version", WeightsVersion, w.Version)
	}
	if !w.IsFitted {
		return errors.NewNotFittedError("LinearRegression", "ImportWeights")
	}

	lr.Reset()
	if v, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		lr.fitIntercept = v
	}
	if v, ok := w.Hyperparameters["rcond"].(float64); ok {
		lr.rcond = v
	}
	switch v := w.Hyperparameters["rank"].(type) {
	case int:
		lr.Rank = v
	case float64:
		lr.Rank = int(v)
	}
	lr.Weights = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	lr.Intercept = w.Intercept
	lr.NFeatures = len(w.Coefficients)
	lr.SetFitted()
	return nil
}
