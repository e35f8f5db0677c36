package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with an isolated config file.
func execute(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0600))

	for _, key := range []string{"GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_NUMBERS_RANGE", "GOOGLE_SHEETS_CHARTS_RANGE"} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", path, "--log-level", "error"}, args...))
	t.Cleanup(func() {
		demo = false
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShowDemoJSON(t *testing.T) {
	out, err := execute(t, "dashboard:\n  countdown_path: \"\"\n", "--demo", "show", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Metrics map[string]float64 `json:"metrics"`
		Derived struct {
			PercentReached float64 `json:"percent_reached"`
		} `json:"derived"`
		Notices []model.Notice `json:"notices"`
	}
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &got))
	assert.Equal(t, 62.5, got.Derived.PercentReached)
	assert.Equal(t, 20000.0, got.Metrics[model.MetricISVGoal])
	assert.Empty(t, got.Notices)
}

func TestShowRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "--demo", "show", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCheckMissingCredentials(t *testing.T) {
	_, err := execute(t, "sheets:\n  spreadsheet_id: abc\n", "check")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "private_key")
	assert.Contains(t, userErr.UserMessage, "MISSION_* environment variables")
}

func TestExportDemo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	stdout, err := execute(t, "dashboard:\n  countdown_path: \"\"\n", "--demo", "export", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported")
	assert.FileExists(t, out)
}

func TestHistoryDisabled(t *testing.T) {
	_, err := execute(t, "", "history")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "history.enabled")
}

func TestHistoryRecordsDemoRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	cfg := "dashboard:\n  countdown_path: \"\"\nhistory:\n  enabled: true\n  dsn: " + db + "\n"

	_, err := execute(t, cfg, "--demo", "show", "--format", "json")
	require.NoError(t, err)

	out, err := execute(t, cfg, "history", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "62.50%")
	assert.Contains(t, out, "12,500")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mission dev")
}
