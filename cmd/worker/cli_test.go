package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pickup-address/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig tạo app.yaml tối thiểu với juso tắt
func writeConfig(t *testing.T, progressDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	content := "epost:\n  script:\n    paths:\n      progress_dir: " + progressDir + "\n    juso_api:\n      enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand(t *testing.T) {
	var out bytes.Buffer
	app := newCLIApp(&out)

	require.NoError(t, app.Run([]string{"pickup-worker", "check", "향군로 74번길 26", "태평로1가31"}))
	assert.Equal(t, "향군로74번길26\ttrue\n태평로1가31\tfalse\n", out.String())

	err := newCLIApp(&out).Run([]string{"pickup-worker", "check"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestParseCommand(t *testing.T) {
	var out bytes.Buffer
	app := newCLIApp(&out)
	cfgPath := writeConfig(t, t.TempDir())

	require.NoError(t, app.Run([]string{"pickup-worker", "--config", cfgPath, "parse",
		"서울특별시 중구 태평로1가 31, 101동 502호", "향군로 74번길 26"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first models.ResolvedAddressRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "서울특별시 중구 태평로1가 31", first.Keyword)
	assert.Equal(t, "101", models.StringValue(first.Building))
	assert.Equal(t, "502", models.StringValue(first.Unit))
	// juso tắt: địa chỉ lô vẫn qua resolver (trả nil)
	assert.True(t, first.APIChecked)
	assert.False(t, first.APIHit)

	var second models.ResolvedAddressRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "향군로74번길26", second.ResultTextContains)
	assert.False(t, second.APIChecked)
}

func TestParseCommand_Errors(t *testing.T) {
	var out bytes.Buffer
	app := newCLIApp(&out)
	cfgPath := writeConfig(t, t.TempDir())

	err := app.Run([]string{"pickup-worker", "--config", cfgPath, "parse", "--rule-only", "(메모)"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_INPUT")

	err = newCLIApp(&out).Run([]string{"pickup-worker", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "parse", "세종대로 110"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIGURATION")
}

func TestExportCommand(t *testing.T) {
	progressDir := t.TempDir()
	cfgPath := writeConfig(t, progressDir)

	input := filepath.Join(t.TempDir(), "subjects.csv")
	require.NoError(t, os.WriteFile(input, []byte("관리번호,성명,방문접수주소\nA-1,홍길동,\"향군로 74번길 26, 102동 1503호\"\n"), 0o644))

	var out bytes.Buffer
	app := newCLIApp(&out)
	require.NoError(t, app.Run([]string{"pickup-worker", "--config", cfgPath, "export", "--input", input}))

	var result struct {
		Path string `json:"path"`
		Rows int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, progressDir, filepath.Dir(result.Path))

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "row_index", records[0][0])
	assert.Equal(t, "A-1", records[1][1])
}
