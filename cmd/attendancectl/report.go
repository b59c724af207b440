package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	month      int
	year       int
	department string
	employeeID string
	format     string
	out        string
}

var reportOpts reportOptions

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a monthly attendance report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		svc := reportService.NewReportService(
			postgresql.NewEmployeeRepository(db),
			postgresql.NewHolidayRepository(db),
			postgresql.NewAttendanceRepository(db),
			nil,
			nil,
			nil,
			cfg.Location(),
		)

		out := cmd.OutOrStdout()
		if reportOpts.out != "" {
			f, err := os.Create(reportOpts.out)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return writeReport(cmd.Context(), svc, reportOpts, out)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportOpts.month, "month", 0, "Month 1-12 (default: current month)")
	reportCmd.Flags().IntVar(&reportOpts.year, "year", 0, "Year (default: current year)")
	reportCmd.Flags().StringVar(&reportOpts.department, "department", "", "Only employees of this department")
	reportCmd.Flags().StringVar(&reportOpts.employeeID, "employee", "", "Only this employee id")
	reportCmd.Flags().StringVar(&reportOpts.format, "format", "json", "Output format: json, csv, pdf")
	reportCmd.Flags().StringVar(&reportOpts.out, "out", "", "Write to this file instead of stdout")
}

func writeReport(ctx context.Context, svc report.ReportService, opts reportOptions, w io.Writer) error {
	req := report.MonthlyReportRequest{Month: opts.month, Year: opts.year}
	if opts.department != "" {
		req.Department = &opts.department
	}
	if opts.employeeID != "" {
		req.EmployeeID = &opts.employeeID
	}

	if opts.format == "json" {
		result, err := svc.MonthlyReport(ctx, req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("%w (or json)", err)
	}
	file, err := svc.Export(ctx, req, format)
	if err != nil {
		return err
	}
	_, err = w.Write(file.Content)
	return err
}
