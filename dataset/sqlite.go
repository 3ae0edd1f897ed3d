package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// OpenSQLite opens a SQLite database file read-only with the pure Go driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", path)
	}
	return db, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LoadSQLite reads the labeled table from a SQLite database. It has the same
// contract as LoadCSV: SQL NULL is missing, rows with a missing target are
// dropped, and text cells in numeric columns are parsed.
func LoadSQLite(ctx context.Context, db *sql.DB, table string, schema Schema) (*Labeled, error) {
	cols := make([]string, 0, len(schema.Columns)+1)
	for _, spec := range schema.Columns {
		cols = append(cols, quoteIdent(spec.Name))
	}
	cols = append(cols, quoteIdent(schema.Target))
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query table %s", table)
	}
	defer rows.Close()

	builder := newTableBuilder(schema)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "failed to scan row %d", row)
		}

		y, missing, err := sqlTarget(values[len(values)-1], row)
		if err != nil {
			return nil, err
		}
		if missing {
			builder.dropped++
			continue
		}
		for i, b := range builder.cols {
			appendSQLValue(b, values[i], row)
		}
		builder.y = append(builder.y, y)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate rows")
	}
	return builder.build()
}

func sqlTarget(v any, row int) (float64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, true, nil
	case int64:
		return float64(t), false, nil
	case float64:
		return parseTarget(strconv.FormatFloat(t, 'g', -1, 64), row)
	case []byte:
		return parseTarget(string(t), row)
	case string:
		return parseTarget(t, row)
	default:
		return 0, false, errors.NewValueError("dataset.LoadSQLite",
			fmt.Sprintf("unsupported target type %T at row %d", v, row))
	}
}

func appendSQLValue(b *columnBuilder, v any, row int) {
	switch t := v.(type) {
	case nil:
		b.appendMissing()
	case int64:
		if b.spec.Kind == Numeric {
			b.appendFloat(float64(t))
		} else {
			b.appendString(strconv.FormatInt(t, 10))
		}
	case float64:
		if b.spec.Kind == Numeric {
			b.appendFloat(t)
		} else {
			b.appendString(strconv.FormatFloat(t, 'g', -1, 64))
		}
	case []byte:
		b.appendText(string(t), row)
	case string:
		b.appendText(t, row)
	default:
		b.appendText(fmt.Sprint(t), row)
	}
}
