package preprocessing

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/core/parallel"
	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// Encoding は列グループの補完後の変換方法
type Encoding string

const (
	// EncodingPassthrough は補完した数値をそのまま出力する
	EncodingPassthrough Encoding = "passthrough"
	// EncodingOneHot は OneHotEncoder を使う
	EncodingOneHot Encoding = "onehot"
	// EncodingOrdinal は OrdinalEncoder を使う
	EncodingOrdinal Encoding = "ordinal"
)

// GroupSpec は ColumnTransformer の一つの列グループの定義
type GroupSpec struct {
	Name     string
	Columns  []string
	Strategy Strategy
	Encoding Encoding
}

func (g GroupSpec) validate() error {
	if g.Name == "" {
		return errors.NewValidationError("group.name", "is required", g.Name)
	}
	if len(g.Columns) == 0 {
		return errors.NewValidationError("group.columns", "must not be empty", g.Name)
	}
	switch g.Encoding {
	case EncodingPassthrough:
		if g.Strategy != StrategyMedian {
			return errors.NewValidationError("group.strategy", "passthrough groups impute with the median", g.Strategy)
		}
	case EncodingOneHot, EncodingOrdinal:
		if g.Strategy != StrategyMostFrequent {
			return errors.NewValidationError("group.strategy", "encoded groups impute with the most frequent value", g.Strategy)
		}
	default:
		return errors.NewValidationError("group.encoding", "must be passthrough, onehot or ordinal", g.Encoding)
	}
	return nil
}

func (g GroupSpec) newEncoder() Encoder {
	switch g.Encoding {
	case EncodingOneHot:
		return NewOneHotEncoder()
	case EncodingOrdinal:
		return NewOrdinalEncoder()
	default:
		return nil
	}
}

// SalaryGroups は給与データ用の列グループ:
// num (中央値補完), cat_low (最頻値補完 + one-hot), cat_high (最頻値補完 + 序数)
func SalaryGroups() []GroupSpec {
	return []GroupSpec{
		{
			Name:     "num",
			Columns:  []string{dataset.ColAge, dataset.ColExperience},
			Strategy: StrategyMedian,
			Encoding: EncodingPassthrough,
		},
		{
			Name:     "cat_low",
			Columns:  []string{dataset.ColGender, dataset.ColEducationLevel},
			Strategy: StrategyMostFrequent,
			Encoding: EncodingOneHot,
		},
		{
			Name:     "cat_high",
			Columns:  []string{dataset.ColJobTitle},
			Strategy: StrategyMostFrequent,
			Encoding: EncodingOrdinal,
		},
	}
}

type group struct {
	spec    GroupSpec
	imputer *SimpleImputer
	encoder Encoder
}

func (g *group) columns(op string, X *dataset.Frame) ([]*dataset.Column, error) {
	cols := make([]*dataset.Column, len(g.spec.Columns))
	for j, name := range g.spec.Columns {
		c, ok := X.Column(name)
		if !ok {
			return nil, errors.NewMissingFeatureError(op, name)
		}
		cols[j] = c
	}
	return cols, nil
}

func (g *group) fit(X *dataset.Frame) error {
	cols, err := g.columns("training", X)
	if err != nil {
		return err
	}
	filled, err := g.imputer.FitTransform(cols)
	if err != nil {
		return errors.Wrapf(err, "group %s", g.spec.Name)
	}
	if g.encoder != nil {
		if err := g.encoder.Fit(filled); err != nil {
			return errors.Wrapf(err, "group %s", g.spec.Name)
		}
	}
	return nil
}

func (g *group) transform(X *dataset.Frame) (*mat.Dense, error) {
	cols, err := g.columns("transform", X)
	if err != nil {
		return nil, err
	}
	filled, err := g.imputer.Transform(cols)
	if err != nil {
		return nil, errors.Wrapf(err, "group %s", g.spec.Name)
	}
	if g.encoder != nil {
		return g.encoder.Transform(filled)
	}

	out := mat.NewDense(X.Rows(), len(filled), nil)
	for j, c := range filled {
		for i := 0; i < c.Len(); i++ {
			out.Set(i, j, c.Float(i))
		}
	}
	return out, nil
}

func (g *group) featureNames() []string {
	if g.encoder != nil {
		return g.encoder.FeatureNames()
	}
	return append([]string(nil), g.spec.Columns...)
}

// ColumnTransformer は列グループごとに補完とエンコーディングを行い、
// 結果をグループ順に横に連結した特徴量行列を返す。
// グループに属さない列は捨てられる。
type ColumnTransformer struct {
	model.BaseEstimator

	groups       []*group
	featureNames []string
}

// NewColumnTransformer は列グループから ColumnTransformer を作成する。
// 同じ列が二つのグループに現れる場合はエラー。
func NewColumnTransformer(specs ...GroupSpec) (*ColumnTransformer, error) {
	if len(specs) == 0 {
		return nil, errors.NewValidationError("groups", "at least one group is required", 0)
	}
	seen := make(map[string]string)
	ct := &ColumnTransformer{groups: make([]*group, len(specs))}
	for i, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
		for _, name := range spec.Columns {
			if other, dup := seen[name]; dup {
				return nil, errors.NewValidationError("group.columns",
					fmt.Sprintf("column also belongs to group %s", other), name)
			}
			seen[name] = spec.Name
		}
		spec.Columns = append([]string(nil), spec.Columns...)
		ct.groups[i] = &group{
			spec:    spec,
			imputer: NewSimpleImputer(spec.Strategy),
			encoder: spec.newEncoder(),
		}
	}
	return ct, nil
}

// NewSalaryTransformer は SalaryGroups の ColumnTransformer を返す
func NewSalaryTransformer() *ColumnTransformer {
	ct, err := NewColumnTransformer(SalaryGroups()...)
	if err != nil {
		panic(err)
	}
	return ct
}

// Fit は各グループの補完統計量と語彙を学習する。グループは並行して学習する。
func (ct *ColumnTransformer) Fit(X *dataset.Frame) error {
	if X == nil || X.Rows() == 0 {
		return errors.NewModelError("ColumnTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	ct.Reset()

	err := parallel.ParallelizeErr(context.Background(), len(ct.groups), func(_ context.Context, start, end int) error {
		for _, g := range ct.groups[start:end] {
			if err := g.fit(X); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ct.featureNames = ct.collectFeatureNames()
	ct.SetFitted()
	return nil
}

// Transform は特徴量行列 (n_samples × NumFeatures) を返す。
// 学習時の列が一つでも欠けていれば InputShapeError。
func (ct *ColumnTransformer) Transform(X *dataset.Frame) (*mat.Dense, error) {
	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Transform")
	}
	if X == nil || X.Rows() == 0 {
		return nil, errors.NewModelError("ColumnTransformer.Transform", "empty data", errors.ErrEmptyData)
	}

	rows := X.Rows()
	out := mat.NewDense(rows, len(ct.featureNames), nil)
	offset := 0
	for _, g := range ct.groups {
		block, err := g.transform(X)
		if err != nil {
			return nil, err
		}
		_, w := block.Dims()
		out.Slice(0, rows, offset, offset+w).(*mat.Dense).Copy(block)
		offset += w
	}
	if offset != len(ct.featureNames) {
		return nil, errors.NewDimensionError("ColumnTransformer.Transform", len(ct.featureNames), offset, 1)
	}
	return out, nil
}

// FitTransform は学習と変換を続けて行う
func (ct *ColumnTransformer) FitTransform(X *dataset.Frame) (*mat.Dense, error) {
	if err := ct.Fit(X); err != nil {
		return nil, err
	}
	return ct.Transform(X)
}

// FeatureNames は出力列名を出力順に返す
func (ct *ColumnTransformer) FeatureNames() []string {
	return append([]string(nil), ct.featureNames...)
}

// NumFeatures は出力列数
func (ct *ColumnTransformer) NumFeatures() int {
	return len(ct.featureNames)
}

// InputColumns は変換に使う入力列名をグループ順に返す
func (ct *ColumnTransformer) InputColumns() []string {
	var names []string
	for _, g := range ct.groups {
		names = append(names, g.spec.Columns...)
	}
	return names
}

func (ct *ColumnTransformer) collectFeatureNames() []string {
	var names []string
	for _, g := range ct.groups {
		names = append(names, g.featureNames()...)
	}
	return names
}

// GroupParams は一つの列グループの学習済み状態
type GroupParams struct {
	Name       string     `json:"name"`
	Columns    []string   `json:"columns"`
	Strategy   Strategy   `json:"strategy"`
	Encoding   Encoding   `json:"encoding"`
	Medians    []float64  `json:"medians,omitempty"`
	Modes      []string   `json:"modes,omitempty"`
	Categories [][]string `json:"categories,omitempty"`
}

// Params は ColumnTransformer の学習済み状態 (シリアライゼーション用)
type Params struct {
	Groups       []GroupParams `json:"groups"`
	FeatureNames []string      `json:"feature_names"`
}

// Params は学習済み状態をエクスポートする
func (ct *ColumnTransformer) Params() (*Params, error) {
	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Params")
	}
	p := &Params{FeatureNames: ct.FeatureNames()}
	for _, g := range ct.groups {
		gp := GroupParams{
			Name:     g.spec.Name,
			Columns:  append([]string(nil), g.spec.Columns...),
			Strategy: g.spec.Strategy,
			Encoding: g.spec.Encoding,
			Medians:  append([]float64(nil), g.imputer.Medians...),
			Modes:    append([]string(nil), g.imputer.Modes...),
		}
		if g.encoder != nil {
			gp.Categories = g.encoder.Vocabulary()
		}
		p.Groups = append(p.Groups, gp)
	}
	return p, nil
}

// FromParams は保存済みの状態から学習済みの ColumnTransformer を復元する。
// 統計量や語彙の数が列数と合わない場合、出力列名が一致しない場合はエラー。
func FromParams(p *Params) (*ColumnTransformer, error) {
	if p == nil {
		return nil, errors.NewValidationError("params", "is required", nil)
	}
	specs := make([]GroupSpec, len(p.Groups))
	for i, gp := range p.Groups {
		specs[i] = GroupSpec{Name: gp.Name, Columns: gp.Columns, Strategy: gp.Strategy, Encoding: gp.Encoding}
	}
	ct, err := NewColumnTransformer(specs...)
	if err != nil {
		return nil, err
	}

	for i, gp := range p.Groups {
		g := ct.groups[i]
		switch gp.Strategy {
		case StrategyMedian:
			if len(gp.Medians) != len(gp.Columns) {
				return nil, errors.NewSchemaError(gp.Name+".medians", len(gp.Columns), len(gp.Medians))
			}
			if err := errors.CheckNumericalStability("FromParams", gp.Medians); err != nil {
				return nil, err
			}
			g.imputer.Medians = append([]float64(nil), gp.Medians...)
		case StrategyMostFrequent:
			if len(gp.Modes) != len(gp.Columns) {
				return nil, errors.NewSchemaError(gp.Name+".modes", len(gp.Columns), len(gp.Modes))
			}
			g.imputer.Modes = append([]string(nil), gp.Modes...)
		}
		g.imputer.SetFitted()

		if g.encoder != nil {
			var restore func(string, []string, [][]string) error
			switch enc := g.encoder.(type) {
			case *OneHotEncoder:
				restore = enc.restore
			case *OrdinalEncoder:
				restore = enc.restore
			}
			if err := restore("FromParams", gp.Columns, gp.Categories); err != nil {
				return nil, errors.Wrapf(err, "group %s", gp.Name)
			}
		}
	}

	ct.featureNames = ct.collectFeatureNames()
	if len(p.FeatureNames) > 0 && !slices.Equal(p.FeatureNames, ct.featureNames) {
		return nil, errors.NewSchemaError("feature_names", ct.featureNames, p.FeatureNames)
	}
	ct.SetFitted()
	return ct, nil
}
