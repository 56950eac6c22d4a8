package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/pickup-address/internal/errors"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\uFEFF"

// Row một dòng dữ liệu: header → giá trị đã trim
type Row struct {
	Index  int               // thứ tự dòng dữ liệu, bắt đầu từ 1 (không tính header)
	Values map[string]string // theo tên cột
}

// Get lấy giá trị theo tên cột; "" nếu không có
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Table dữ liệu đọc từ file
type Table struct {
	Sheet   string
	Headers []string
	Rows    []Row
}

// HasColumn kiểm tra header có cột không
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// RequireColumns trả lỗi INVALID_REQUEST với cột đầu tiên bị thiếu
func (t *Table) RequireColumns(columns ...string) error {
	for _, c := range columns {
		if c == "" {
			continue
		}
		if !t.HasColumn(c) {
			return apperrors.NewInvalidRequest(fmt.Sprintf("column %q not found in sheet %q", c, t.Sheet))
		}
	}
	return nil
}

// ReadRows đọc .xlsx/.xlsm (excelize) hoặc .csv. sheet rỗng thì dùng sheet đầu tiên.
// Dòng đầu là header.
func ReadRows(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcel(path, sheet)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("mở file csv: %w", err)
		}
		defer f.Close()
		table, err := ReadCSV(f)
		if err != nil {
			return nil, err
		}
		table.Sheet = filepath.Base(path)
		return table, nil
	default:
		return nil, apperrors.NewInvalidRequest(fmt.Sprintf("unsupported spreadsheet type %q", filepath.Ext(path)))
	}
}

func readExcel(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("mở file excel: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewInvalidRequest("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewInvalidRequest(fmt.Sprintf("sheet %q not found", sheet))
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("đọc sheet %s: %w", sheet, err)
	}

	table := buildTable(records)
	table.Sheet = sheet
	return table, nil
}

// ReadCSV đọc CSV UTF-8 (bỏ BOM nếu có)
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("đọc csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return buildTable(records), nil
}

func buildTable(records [][]string) *Table {
	table := &Table{}
	if len(records) == 0 {
		return table
	}

	for _, h := range records[0] {
		table.Headers = append(table.Headers, strings.TrimSpace(h))
	}

	for i, record := range records[1:] {
		values := make(map[string]string, len(table.Headers))
		empty := true
		for col, header := range table.Headers {
			if header == "" {
				continue
			}
			var cell string
			if col < len(record) {
				cell = strings.TrimSpace(record[col])
			}
			if cell != "" {
				empty = false
			}
			values[header] = cell
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, Row{Index: i + 1, Values: values})
	}
	return table
}
