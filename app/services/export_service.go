package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/models"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/normalizer"
	"github.com/pickup-address/internal/spreadsheet"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

// ReportColumns thứ tự cột của báo cáo parse địa chỉ
var ReportColumns = []string{
	"row_index",
	"management_no",
	"subject_name",
	"pickup_address_source",
	"pickup_address_clean",
	"keyword_rule",
	"result_text_contains_rule",
	"detail_address_rule",
	"building_rule",
	"unit_rule",
	"keyword_final",
	"result_text_contains_final",
	"detail_address_final",
	"building_final",
	"unit_final",
	"rule_token_road_like",
	"final_token_road_like",
	"api_checked",
	"api_hit",
	"api_adjusted",
	"api_error",
	"juso_mode",
	"keyword_similarity",
	"keyword_edit_distance",
	"excel_path",
	"sheet_name",
	"pickup_col",
}

// ExportOptions ghi đè giá trị cấu hình cho một lần export
type ExportOptions struct {
	InputPath string
	Sheet     string
	OutDir    string
}

// ExportResult kết quả export
type ExportResult struct {
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
}

// ExportService xuất báo cáo CSV so sánh kết quả luật và kết quả cuối
type ExportService struct {
	addressService *AddressService
	cfg            *config.Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewExportService tạo mới ExportService
func NewExportService(addressService *AddressService, cfg *config.Config, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		addressService: addressService,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
	}
}

// Export đọc file đầu vào và ghi <out_dir>/pickup_address_parsing_<YYYYMMDD_HHMMSS>.csv (UTF-8 BOM)
func (es *ExportService) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	inputPath := firstNonEmpty(opts.InputPath, es.cfg.InputExcel.Path)
	sheet := firstNonEmpty(opts.Sheet, es.cfg.InputExcel.Sheet)
	outDir := firstNonEmpty(opts.OutDir, es.cfg.ProgressDir(), "progress")

	pickupCol := strings.TrimSpace(es.cfg.InputExcel.Columns.PickupAddress)
	if pickupCol == "" {
		return nil, apperrors.NewConfiguration("input_excel.columns.pickup_address", "must not be empty")
	}

	table, err := spreadsheet.ReadRows(inputPath, sheet)
	if err != nil {
		return nil, err
	}
	if err := table.RequireColumns(pickupCol); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("tạo thư mục output: %w", err)
	}
	outPath := filepath.Join(outDir, fmt.Sprintf("pickup_address_parsing_%s.csv", es.now().Format("20060102_150405")))

	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("tạo file báo cáo: %w", err)
	}
	defer f.Close()

	rows, skipped, err := es.WriteReport(ctx, f, table, inputPath)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("đóng file báo cáo: %w", err)
	}

	es.logger.Info("Đã xuất báo cáo parse địa chỉ",
		zap.String("path", outPath),
		zap.Int("rows", rows),
		zap.Int("skipped", skipped))

	return &ExportResult{Path: outPath, Rows: rows, Skipped: skipped}, nil
}

// WriteReport ghi báo cáo CSV (có BOM) cho table ra w; trả về số dòng đã ghi và số dòng bỏ qua
func (es *ExportService) WriteReport(ctx context.Context, w io.Writer, table *spreadsheet.Table, inputPath string) (int, int, error) {
	columns := es.cfg.InputExcel.Columns
	jusoMode := es.addressService.JusoMode()

	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return 0, 0, fmt.Errorf("ghi BOM: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ReportColumns); err != nil {
		return 0, 0, fmt.Errorf("ghi header: %w", err)
	}

	written, skipped := 0, 0
	for _, row := range table.Rows {
		source := normalizer.NormalizeSpaces(row.Get(columns.PickupAddress))
		if source == "" {
			continue
		}

		rule, err := es.addressService.ParseRule(source)
		if err != nil {
			skipped++
			continue
		}
		final, err := es.addressService.ParseAddress(ctx, source)
		if err != nil {
			skipped++
			continue
		}

		record := es.reportRecord(row, source, rule, final)
		record = append(record, jusoMode)
		record = append(record, keywordDiffColumns(rule.Keyword, final.Keyword)...)
		record = append(record, inputPath, table.Sheet, columns.PickupAddress)

		if err := writer.Write(record); err != nil {
			return written, skipped, fmt.Errorf("ghi dòng %d: %w", row.Index, err)
		}
		written++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return written, skipped, fmt.Errorf("flush csv: %w", err)
	}
	return written, skipped, nil
}

// reportRecord các cột từ row_index tới api_error
func (es *ExportService) reportRecord(row spreadsheet.Row, source string, rule *models.ParsedAddressRule, final *models.ResolvedAddressRecord) []string {
	columns := es.cfg.InputExcel.Columns
	ruleToken := strings.TrimSpace(rule.ResultTextContains)
	finalToken := strings.TrimSpace(final.ResultTextContains)

	return []string{
		strconv.Itoa(row.Index),
		row.Get(columns.ManagementNo),
		row.Get(columns.SubjectName),
		source,
		strings.TrimSpace(rule.Raw),
		strings.TrimSpace(rule.Keyword),
		ruleToken,
		models.StringValue(rule.DetailAddress),
		models.StringValue(rule.Building),
		models.StringValue(rule.Unit),
		strings.TrimSpace(final.Keyword),
		finalToken,
		models.StringValue(final.DetailAddress),
		models.StringValue(final.Building),
		models.StringValue(final.Unit),
		strconv.FormatBool(es.addressService.LooksLikeRoadToken(ruleToken)),
		strconv.FormatBool(es.addressService.LooksLikeRoadToken(finalToken)),
		strconv.FormatBool(final.APIChecked),
		strconv.FormatBool(final.APIHit),
		strconv.FormatBool(final.APIAdjusted),
		models.StringValue(final.APIError),
	}
}

// keywordDiffColumns Jaro-Winkler và Levenshtein giữa keyword luật và keyword cuối, tính theo rune
func keywordDiffColumns(ruleKeyword, finalKeyword string) []string {
	a := normalizer.CompactSpaces(ruleKeyword)
	b := normalizer.CompactSpaces(finalKeyword)
	if a == "" && b == "" {
		return []string{"", ""}
	}
	return []string{
		strconv.FormatFloat(keywordSimilarity(a, b), 'f', 4, 64),
		strconv.Itoa(levenshtein.ComputeDistance(a, b)),
	}
}

// keywordSimilarity Jaro-Winkler theo rune. smetrics so sánh từng byte nên mỗi
// rune được đổi thành một byte riêng trước khi so; quá 256 rune khác nhau thì
// dùng 1 - levenshtein/độ dài rune.
func keywordSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb, ok := runesAsBytes(a, b)
	if !ok {
		longest := utf8.RuneCountInString(a)
		if n := utf8.RuneCountInString(b); n > longest {
			longest = n
		}
		return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	}
	return smetrics.JaroWinkler(ra, rb, 0.7, 4)
}

// runesAsBytes mã hóa a, b sang chuỗi một byte mỗi rune (bảng mã chung cho cả hai)
func runesAsBytes(a, b string) (string, string, bool) {
	codes := make(map[rune]byte)
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			code, exists := codes[r]
			if !exists {
				if len(codes) == 256 {
					return nil, false
				}
				code = byte(len(codes))
				codes[r] = code
			}
			out = append(out, code)
		}
		return out, true
	}
	ea, ok := encode(a)
	if !ok {
		return "", "", false
	}
	eb, ok := encode(b)
	if !ok {
		return "", "", false
	}
	return string(ea), string(eb), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
