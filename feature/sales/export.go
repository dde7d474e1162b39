package sales

import (
	"context"
	"fmt"
	"io"
	"time"

	"sales-history/core/dbf"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the history is exported to.
const SheetName = "Historico"

// ExportContentType is the media type of the exported workbook.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export writes the stored history to w as an Excel workbook, one row per record
// under a header row of field names.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	records, err := s.records(ctx)
	if err != nil {
		return err
	}

	f, err := workbook(s.schema.Names(), records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func workbook(names []string, records []dbf.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	// Add headers
	for col, name := range names {
		if err := setCell(f, col+1, 1, name); err != nil {
			f.Close()
			return nil, err
		}
	}

	// Add data
	for i, rec := range records {
		for col, name := range names {
			v := rec[name]
			if t, ok := v.(time.Time); ok {
				v = t.Format("2006-01-02")
			}
			if v == nil {
				continue
			}
			if err := setCell(f, col+1, i+2, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, v)
}
