// Package metrics extracts the scalar KPIs from the Numbers table and
// derives the values shown on the tiles.
package metrics

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
)

// ColumnMap maps each metric name to the header of the column holding it.
type ColumnMap map[string]string

// DefaultColumns returns the headers used by the Numbers sheet.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		model.MetricISVScore:     "ISV Score",
		model.MetricISVGoal:      "ISV Goal",
		model.MetricMayapurScore: "Mayapur Score",
	}
}

// Headers returns the mapped headers in metric display order.
func (m ColumnMap) Headers() []string {
	headers := make([]string, 0, len(model.MetricNames))
	for _, name := range model.MetricNames {
		headers = append(headers, m[name])
	}
	return headers
}

// Validate rejects unknown metric names and unmapped metrics.
func (m ColumnMap) Validate() error {
	for name := range m {
		if !model.IsMetricName(name) {
			return fmt.Errorf("unknown metric %q in column map", name)
		}
	}
	for _, name := range model.MetricNames {
		if strings.TrimSpace(m[name]) == "" {
			return fmt.Errorf("no column mapped for %q", name)
		}
	}
	return nil
}

// Extract reads the metrics from the first data row of table. Later rows are
// ignored. Absent columns are reported as a *common.SchemaError and leave
// their metric at 0; the metrics that are present are still returned.
func Extract(table model.Table, columns ColumnMap) (model.MetricSet, error) {
	if columns == nil {
		columns = DefaultColumns()
	}

	ms := model.NewMetricSet()
	missing := table.MissingColumns(columns.Headers()...)

	if table.Len() > 1 {
		slog.Debug("ignoring additional rows in numbers table", "rows", table.Len()-1)
	}

	if !table.Empty() {
		row := table.Rows[0]
		for _, name := range model.MetricNames {
			header := columns[name]
			raw, ok := row[header]
			if !ok {
				continue
			}
			v, ok := Coerce(raw)
			if !ok {
				slog.Debug("non-numeric metric value", "metric", name, "column", header, "value", raw)
				continue
			}
			_ = ms.Set(name, v)
		}
	}

	if len(missing) > 0 {
		return ms, &common.SchemaError{Context: "numbers", Missing: missing}
	}
	return ms, nil
}

// Coerce parses a cell as a number. Surrounding space, thousands separators
// and a trailing percent sign are ignored. Anything else that fails to parse,
// including NaN and infinities, reports false and a value of 0.
func Coerce(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceOrZero is Coerce with the failure flag dropped.
func CoerceOrZero(cell string) float64 {
	v, _ := Coerce(cell)
	return v
}
