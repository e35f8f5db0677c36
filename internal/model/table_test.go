package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		values  [][]any
		want    Table
		isEmpty bool
	}{
		{
			name:    "no values",
			values:  nil,
			want:    EmptyTable(),
			isEmpty: true,
		},
		{
			name:    "header only",
			values:  [][]any{{"MetricName", "MetricValue"}},
			want:    Table{Headers: []string{"MetricName", "MetricValue"}, Rows: []Row{}},
			isEmpty: true,
		},
		{
			name: "short rows are padded",
			values: [][]any{
				{"MetricName", "MetricValue"},
				{"Books"},
			},
			want: Table{
				Headers: []string{"MetricName", "MetricValue"},
				Rows:    []Row{{"MetricName": "Books", "MetricValue": ""}},
			},
		},
		{
			name: "extra cells are dropped and numbers stringified",
			values: [][]any{
				{" ISV Score ", "ISV Goal"},
				{float64(12500), "20000", "ignored"},
			},
			want: Table{
				Headers: []string{"ISV Score", "ISV Goal"},
				Rows:    []Row{{"ISV Score": "12500", "ISV Goal": "20000"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTable(tt.values)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NewTable() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.isEmpty, got.Empty())
			for _, row := range got.Rows {
				assert.Len(t, row, len(got.Headers))
			}
		})
	}
}

func TestNewTable_DuplicateHeaders(t *testing.T) {
	table := NewTableFromStrings([][]string{
		{"Name", "Value", "Value"},
		{"Books", "10", "20"},
	})

	assert.Equal(t, []string{"Name", "Value", "Value_2"}, table.Headers)
	if diff := cmp.Diff([][]string{{"Books", "10", "20"}}, table.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}

	clash := NewTableFromStrings([][]string{
		{"Value", "Value_2", "Value", ""},
		{"1", "2", "3", "4"},
	})
	assert.Equal(t, []string{"Value", "Value_2", "Value_3", ""}, clash.Headers)
	assert.Equal(t, []string{"1", "2", "3", "4"}, clash.Records()[0])
}

func TestTable_Columns(t *testing.T) {
	table := NewTableFromStrings([][]string{
		{"MetricName", "MetricValue"},
		{"Books", "10"},
		{"Sets", "30"},
	})

	assert.True(t, table.HasColumns("MetricName"))
	assert.False(t, table.HasColumns("MetricName", "Other"))
	assert.Equal(t, []string{"Other", "Nope"}, table.MissingColumns("Other", "MetricValue", "Nope"))
	assert.Equal(t, []string{"Books", "Sets"}, table.Column("MetricName"))
	assert.Equal(t, [][]string{{"Books", "10"}, {"Sets", "30"}}, table.Records())
	assert.Equal(t, 2, table.Len())
}

func TestSheetRange(t *testing.T) {
	r := NewSheetRange(" abc ", " 'Charts'!A1:B10 ")
	require.NoError(t, r.Validate())
	assert.Equal(t, "Charts", r.SheetName())
	assert.Equal(t, "abc/'Charts'!A1:B10", r.String())

	assert.ErrorIs(t, NewSheetRange("", "A1:B2").Validate(), ErrInvalidRange)
	assert.ErrorIs(t, NewSheetRange("abc", "").Validate(), ErrInvalidRange)
	assert.Equal(t, "", NewSheetRange("abc", "A1:B2").SheetName())
}
