package model

import (
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Names of the scalar KPIs shown as tiles.
const (
	MetricISVScore     = "YTD ISV Total Book Points"
	MetricISVGoal      = "ISV End of Year Goal"
	MetricMayapurScore = "YTD Mayapur Total Book Points"
)

// MetricNames lists the metrics in display order.
var MetricNames = []string{MetricISVScore, MetricISVGoal, MetricMayapurScore}

// IsMetricName reports whether name is one of the fixed metrics.
func IsMetricName(name string) bool {
	for _, n := range MetricNames {
		if n == name {
			return true
		}
	}
	return false
}

// MetricSet holds a value for each fixed metric. Absent values read as 0.
type MetricSet struct {
	values map[string]float64
}

// NewMetricSet returns a set with every metric at 0.
func NewMetricSet() MetricSet {
	values := make(map[string]float64, len(MetricNames))
	for _, n := range MetricNames {
		values[n] = 0
	}
	return MetricSet{values: values}
}

// Get returns the value for name, or 0.
func (m MetricSet) Get(name string) float64 {
	return m.values[name]
}

// Set stores a value. Names outside the fixed set are rejected.
func (m *MetricSet) Set(name string, v float64) error {
	if !IsMetricName(name) {
		return fmt.Errorf("unknown metric %q", name)
	}
	if m.values == nil {
		*m = NewMetricSet()
	}
	m.values[name] = v
	return nil
}

// Score is the ISV year-to-date total.
func (m MetricSet) Score() float64 { return m.Get(MetricISVScore) }

// Goal is the ISV end-of-year goal.
func (m MetricSet) Goal() float64 { return m.Get(MetricISVGoal) }

// Rival is the Mayapur year-to-date total.
func (m MetricSet) Rival() float64 { return m.Get(MetricMayapurScore) }

// Map returns a copy keyed by metric name.
func (m MetricSet) Map() map[string]float64 {
	out := make(map[string]float64, len(MetricNames))
	for _, n := range MetricNames {
		out[n] = m.Get(n)
	}
	return out
}

// MarshalJSON encodes the set as a name → value object.
func (m MetricSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// UnmarshalJSON decodes a name → value object, ignoring unknown names.
func (m *MetricSet) UnmarshalJSON(data []byte) error {
	raw := map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewMetricSet()
	for k, v := range raw {
		if IsMetricName(k) {
			m.values[k] = v
		}
	}
	return nil
}

// MarshalYAML encodes the set as an ordered mapping.
func (m MetricSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range MetricNames {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: n},
			&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(m.Get(n), 'f', -1, 64)},
		)
	}
	return node, nil
}

// Snapshot is a point-in-time record of the metrics.
type Snapshot struct {
	TakenAt        time.Time `json:"taken_at" yaml:"taken_at"`
	Metrics        MetricSet `json:"metrics" yaml:"metrics"`
	PercentReached float64   `json:"percent_reached" yaml:"percent_reached"`
	ID             int64     `json:"id" yaml:"id"`
}
