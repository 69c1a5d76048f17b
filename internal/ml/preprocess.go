package ml

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Table is a column-oriented feature table.
type Table struct {
	Numeric     map[string][]float64
	Categorical map[string][]string
}

// Len returns the shared row count and fails when columns disagree.
func (t Table) Len() (int, error) {
	n := -1
	check := func(name string, size int) error {
		if n == -1 {
			n = size
			return nil
		}
		if size != n {
			return fmt.Errorf("column %q has %d rows, expected %d", name, size, n)
		}
		return nil
	}
	for _, name := range sortedKeys(t.Numeric) {
		if err := check(name, len(t.Numeric[name])); err != nil {
			return 0, err
		}
	}
	for _, name := range sortedKeys(t.Categorical) {
		if err := check(name, len(t.Categorical[name])); err != nil {
			return 0, err
		}
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// StandardScaler centers a column on its mean and scales it to unit
// population variance. A constant column keeps scale 1.
type StandardScaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

func (s *StandardScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("standard scaler: empty column")
	}
	mean, scale := stat.PopMeanStdDev(values, nil)
	if math.IsNaN(mean) || math.IsNaN(scale) {
		return fmt.Errorf("standard scaler: column contains NaN")
	}
	if scale == 0 {
		scale = 1
	}
	s.Mean = mean
	s.Scale = scale
	return nil
}

func (s StandardScaler) Transform(v float64) float64 {
	return (v - s.Mean) / s.Scale
}

// OneHotEncoder expands a categorical column into indicator features. The
// category set is fixed at fit time; unseen values encode as all zeros.
type OneHotEncoder struct {
	Categories []string `json:"categories"`
}

func (e *OneHotEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("one-hot encoder: empty column")
	}
	seen := make(map[string]struct{}, 8)
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.Categories = sortedKeys(seen)
	return nil
}

func (e OneHotEncoder) Width() int {
	return len(e.Categories)
}

func (e OneHotEncoder) Encode(dst []float64, v string) {
	idx := sort.SearchStrings(e.Categories, v)
	if idx < len(e.Categories) && e.Categories[idx] == v {
		dst[idx] = 1
	}
}

// ColumnTransformer applies one scaler per numeric column followed by one
// encoder per categorical column, concatenating the outputs in that order.
type ColumnTransformer struct {
	NumericColumns     []string         `json:"numeric_columns"`
	CategoricalColumns []string         `json:"categorical_columns"`
	Scalers            []StandardScaler `json:"scalers"`
	Encoders           []OneHotEncoder  `json:"encoders"`
}

func NewColumnTransformer(numeric, categorical []string) *ColumnTransformer {
	return &ColumnTransformer{
		NumericColumns:     append([]string(nil), numeric...),
		CategoricalColumns: append([]string(nil), categorical...),
	}
}

func (c *ColumnTransformer) Fit(t Table) error {
	if _, err := t.Len(); err != nil {
		return err
	}
	scalers := make([]StandardScaler, len(c.NumericColumns))
	for i, name := range c.NumericColumns {
		values, ok := t.Numeric[name]
		if !ok {
			return fmt.Errorf("fit: numeric column %q missing", name)
		}
		if err := scalers[i].Fit(values); err != nil {
			return fmt.Errorf("fit %s: %w", name, err)
		}
	}
	encoders := make([]OneHotEncoder, len(c.CategoricalColumns))
	for i, name := range c.CategoricalColumns {
		values, ok := t.Categorical[name]
		if !ok {
			return fmt.Errorf("fit: categorical column %q missing", name)
		}
		if err := encoders[i].Fit(values); err != nil {
			return fmt.Errorf("fit %s: %w", name, err)
		}
	}
	c.Scalers = scalers
	c.Encoders = encoders
	return nil
}

func (c *ColumnTransformer) Fitted() bool {
	return len(c.Scalers) == len(c.NumericColumns) &&
		len(c.Encoders) == len(c.CategoricalColumns) &&
		len(c.NumericColumns)+len(c.CategoricalColumns) > 0
}

// NumFeatures is the width of a transformed row.
func (c *ColumnTransformer) NumFeatures() int {
	width := len(c.Scalers)
	for _, enc := range c.Encoders {
		width += enc.Width()
	}
	return width
}

func (c *ColumnTransformer) Transform(t Table) ([][]float64, error) {
	if !c.Fitted() {
		return nil, fmt.Errorf("transform: column transformer is not fitted")
	}
	n, err := t.Len()
	if err != nil {
		return nil, err
	}
	numeric := make([][]float64, len(c.NumericColumns))
	for i, name := range c.NumericColumns {
		values, ok := t.Numeric[name]
		if !ok {
			return nil, fmt.Errorf("transform: numeric column %q missing", name)
		}
		numeric[i] = values
	}
	categorical := make([][]string, len(c.CategoricalColumns))
	for i, name := range c.CategoricalColumns {
		values, ok := t.Categorical[name]
		if !ok {
			return nil, fmt.Errorf("transform: categorical column %q missing", name)
		}
		categorical[i] = values
	}

	width := c.NumFeatures()
	out := make([][]float64, n)
	for row := 0; row < n; row++ {
		x := make([]float64, width)
		for i, scaler := range c.Scalers {
			x[i] = scaler.Transform(numeric[i][row])
		}
		offset := len(c.Scalers)
		for i, enc := range c.Encoders {
			enc.Encode(x[offset:offset+enc.Width()], categorical[i][row])
			offset += enc.Width()
		}
		out[row] = x
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
