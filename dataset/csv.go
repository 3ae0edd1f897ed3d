package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// LoadCSV reads a headered CSV file holding the schema's feature columns and
// its target. Extra columns are ignored. Rows with a missing target are
// dropped.
func LoadCSV(path string, schema Schema) (*Labeled, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer file.Close()

	l, err := ReadCSV(file, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", path)
	}
	return l, nil
}

// ReadCSV is LoadCSV over an io.Reader.
func ReadCSV(r io.Reader, schema Schema) (*Labeled, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.ReadCSV", "missing header", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}
	featurePos := make([]int, len(schema.Columns))
	for i, spec := range schema.Columns {
		p, ok := positions[spec.Name]
		if !ok {
			return nil, errors.NewMissingFeatureError("loading", spec.Name)
		}
		featurePos[i] = p
	}
	targetPos, ok := positions[schema.Target]
	if !ok {
		return nil, errors.NewMissingFeatureError("loading", schema.Target)
	}

	table := newTableBuilder(schema)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", row)
		}

		y, missing, err := parseTarget(record[targetPos], row)
		if err != nil {
			return nil, err
		}
		if missing {
			table.dropped++
			continue
		}
		for i, p := range featurePos {
			table.cols[i].appendText(record[p], row)
		}
		table.y = append(table.y, y)
	}
	return table.build()
}
