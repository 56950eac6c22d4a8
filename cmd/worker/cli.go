package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/services"
	"github.com/pickup-address/helpers/utils"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/normalizer"
	"github.com/pickup-address/internal/parser"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Version phiên bản worker
const Version = "1.0.0"

// newCLIApp tạo CLI worker; out nhận toàn bộ output của lệnh
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "pickup-worker",
		Usage:   "Tách địa chỉ nhận hàng (방문접수주소) và xuất báo cáo",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"PICKUP_CONFIG"}, Usage: "Đường dẫn file app.yaml"},
			&cli.BoolFlag{Name: "verbose", Usage: "Bật log debug"},
		},
		Commands: []*cli.Command{
			exportCmd(out),
			parseCmd(out),
			checkCmd(out),
		},
	}
	// trả lỗi về cho Run thay vì os.Exit (để test)
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// exportCmd đọc file Excel/CSV đầu vào và ghi báo cáo CSV
func exportCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Xuất báo cáo pickup_address_parsing_<timestamp>.csv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "File đầu vào (.xlsx, .xlsm, .csv); mặc định input_excel.path"},
			&cli.StringFlag{Name: "sheet", Usage: "Tên sheet; mặc định sheet đầu tiên"},
			&cli.StringFlag{Name: "out-dir", Aliases: []string{"o"}, Usage: "Thư mục output; mặc định epost.script.paths.progress_dir"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return outputError(err)
			}
			defer logger.Sync()

			pipeline, err := services.NewPipeline(c.Context, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer pipeline.Close()

			export := services.NewExportService(pipeline.AddressService, cfg, logger)
			result, err := export.Export(c.Context, services.ExportOptions{
				InputPath: c.String("input"),
				Sheet:     c.String("sheet"),
				OutDir:    c.String("out-dir"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out, result)
		},
	}
}

// parseCmd parse từng địa chỉ truyền vào, in một dòng JSON cho mỗi địa chỉ
func parseCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse địa chỉ và in kết quả JSON",
		ArgsUsage: "ADDRESS...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rule-only", Usage: "Chỉ dùng luật, không gọi juso API"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(apperrors.NewInvalidRequest("cần ít nhất một địa chỉ"))
			}

			cfg, logger, err := setup(c)
			if err != nil {
				return outputError(err)
			}
			defer logger.Sync()

			addressService, closeFn, err := newAddressService(c.Context, cfg, logger, c.Bool("rule-only"))
			if err != nil {
				return outputError(err)
			}
			defer closeFn()

			enc := json.NewEncoder(out)
			for _, address := range c.Args().Slice() {
				record, err := addressService.ParseAddress(c.Context, address)
				if err != nil {
					return outputError(err)
				}
				if err := enc.Encode(record); err != nil {
					return outputError(apperrors.NewInternal(err))
				}
			}
			return nil
		},
	}
}

// checkCmd in token<TAB>true|false cho từng token
func checkCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Kiểm tra token có dạng tên đường + số nhà (vd 향군로74번길26)",
		ArgsUsage: "TOKEN...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(apperrors.NewInvalidRequest("cần ít nhất một token"))
			}
			for _, token := range c.Args().Slice() {
				fmt.Fprintf(out, "%s\t%t\n", normalizer.CompactSpaces(token), parser.LooksLikeRoadToken(token))
			}
			return nil
		},
	}
}

// setup đọc cấu hình và tạo logger theo cờ global
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if !c.Bool("verbose") {
		return cfg, zap.NewNop(), nil
	}
	logger, err := utils.NewLogger(cfg.IsProduction())
	if err != nil {
		return nil, nil, apperrors.NewInternal(err)
	}
	return cfg, logger, nil
}

// newAddressService rule-only thì không mở cache và không cần approval key
func newAddressService(ctx context.Context, cfg *config.Config, logger *zap.Logger, ruleOnly bool) (*services.AddressService, func() error, error) {
	if ruleOnly {
		return services.NewAddressService(parser.NewAddressParser(logger), nil, logger), func() error { return nil }, nil
	}
	pipeline, err := services.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.AddressService, pipeline.Close, nil
}

func outputJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError định dạng lỗi cho CLI
func outputError(err error) error {
	if aErr, ok := apperrors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(strings.TrimSpace(err.Error()), 1)
}

