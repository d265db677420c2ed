package attrition

import (
	"fmt"
	"sort"

	apperrors "retention-service/internal/common/errors"
)

// Placeholder columns the artifacts were fitted with. Both are always zero.
const (
	ColumnEnrolleeID = "enrollee_id"
	ColumnTarget     = "target"
)

// Row is a record laid out in one artifact's column order.
type Row struct {
	Columns []string
	Values  []float64
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.Columns) }

// Get returns the value of a named column.
func (r Row) Get(column string) (float64, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return 0, false
}

func (r Row) fields() map[string]float64 {
	out := make(map[string]float64, len(r.Columns))
	for i, c := range r.Columns {
		out[c] = r.Values[i]
	}
	return out
}

// AlignForScaler adds the enrollee_id and target placeholders and lays the
// record out in the scaler's declared order. The scaler must declare exactly
// the record's columns plus both placeholders.
func AlignForScaler(rec CandidateRecord, scalerColumns []string) (Row, error) {
	fields := rec.Fields()
	fields[ColumnEnrolleeID] = 0
	fields[ColumnTarget] = 0
	return reorder("scaler", fields, scalerColumns)
}

// AlignForModel drops the target placeholder, and enrollee_id when the model
// does not declare it, then lays the scaled row out in the model's order.
func AlignForModel(scaled Row, modelColumns []string) (Row, error) {
	fields := scaled.fields()
	delete(fields, ColumnTarget)
	if !contains(modelColumns, ColumnEnrolleeID) {
		delete(fields, ColumnEnrolleeID)
	}
	return reorder("model", fields, modelColumns)
}

func reorder(stage string, fields map[string]float64, columns []string) (Row, error) {
	if missing, unexpected := diffColumns(columns, fields); len(missing) > 0 || len(unexpected) > 0 {
		return Row{}, apperrors.NewSchemaMismatchError(stage, missing, unexpected)
	}
	row := Row{
		Columns: make([]string, len(columns)),
		Values:  make([]float64, len(columns)),
	}
	for i, col := range columns {
		row.Columns[i] = col
		row.Values[i] = fields[col]
	}
	return row, nil
}

// diffColumns compares a declared column list with a field set. Duplicated
// declarations are reported as unexpected.
func diffColumns(declared []string, fields map[string]float64) (missing, unexpected []string) {
	seen := make(map[string]bool, len(declared))
	for _, col := range declared {
		if seen[col] {
			unexpected = append(unexpected, col)
			continue
		}
		seen[col] = true
		if _, ok := fields[col]; !ok {
			missing = append(missing, col)
		}
	}
	for col := range fields {
		if !seen[col] {
			unexpected = append(unexpected, col)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}

// CheckSchemas verifies once, at load time, that the scaler and model schemas
// are adjacent: the scaler declares the record columns plus enrollee_id and
// target, and the model declares the record columns, optionally enrollee_id,
// and never target.
func CheckSchemas(scalerColumns, modelColumns []string) error {
	scalerFields := recordFieldSet()
	scalerFields[ColumnEnrolleeID] = 0
	scalerFields[ColumnTarget] = 0
	if missing, unexpected := diffColumns(scalerColumns, scalerFields); len(missing) > 0 || len(unexpected) > 0 {
		return apperrors.NewArtifactLoadFailureError("scaler",
			fmt.Errorf("scaler columns are not adjacent to the record schema: missing %v, unexpected %v", missing, unexpected))
	}

	modelFields := recordFieldSet()
	if contains(modelColumns, ColumnEnrolleeID) {
		modelFields[ColumnEnrolleeID] = 0
	}
	if missing, unexpected := diffColumns(modelColumns, modelFields); len(missing) > 0 || len(unexpected) > 0 {
		return apperrors.NewArtifactLoadFailureError("model",
			fmt.Errorf("model columns are not adjacent to the scaler schema: missing %v, unexpected %v", missing, unexpected))
	}
	return nil
}

func recordFieldSet() map[string]float64 {
	out := make(map[string]float64, len(RecordColumns)+2)
	for _, col := range RecordColumns {
		out[col] = 0
	}
	return out
}

func contains(columns []string, col string) bool {
	for _, c := range columns {
		if c == col {
			return true
		}
	}
	return false
}
