package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/xuri/excelize/v2"
)

// TemplateFilename is the suggested name of the downloaded template
const TemplateFilename = "clients-import-template.xlsx"

const templateSheet = "Template"

// templateExample is the example data row of the template
var templateExample = []string{"John Doe", "John D.", "john@doe.com", "New York, USA", "Notes...", "true"}

// Parse reads the first sheet of a workbook. The first row is the header;
// rows without any stored value are skipped, while rows holding only
// whitespace are kept so they surface as invalid. Cells are read unformatted.
// Any decoding problem is ErrParseFailed.
func Parse(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrParseFailed)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParseFailed, err)
	}
	if len(rows) == 0 {
		return []RawRow{}, nil
	}

	headers := rows[0]
	out := make([]RawRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		raw := make(RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if _, dup := raw[h]; dup {
				continue
			}
			if i < len(cells) {
				raw[h] = cells[i]
			} else {
				raw[h] = ""
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// WriteTemplate writes a single-sheet workbook with the canonical header row
// and one example row
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}
	if err := writeRows(f, templateSheet, [][]string{Columns, templateExample}); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

// Format is an export file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat accepts "csv", "excel" or "xlsx"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Filename returns the download name for an export in this format
func (f Format) Filename() string {
	if f == FormatExcel {
		return "clients.xlsx"
	}
	return "clients.csv"
}

// ContentType returns the MIME type of an export in this format
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Label is the upper-case name used in notifications
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

var exportColumns = []string{"id", ColFullName, ColDisplayName, ColEmail, ColLocation, ColDetails, ColActive}

const exportSheet = "Clients"

// Export writes clients as csv or xlsx. An empty set is ErrNothingToExport.
func Export(w io.Writer, clients []domain.Client, format Format) error {
	if len(clients) == 0 {
		return domain.ErrNothingToExport
	}

	rows := make([][]string, 0, len(clients)+1)
	rows = append(rows, exportColumns)
	for _, c := range clients {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.FullName,
			c.DisplayName,
			c.Email,
			c.Location,
			c.Details,
			strconv.FormatBool(c.Active),
		})
	}

	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	case FormatExcel:
		f := excelize.NewFile()
		defer f.Close()
		if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
			return fmt.Errorf("failed to name export sheet: %w", err)
		}
		if err := writeRows(f, exportSheet, rows); err != nil {
			return err
		}
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format %q", format)
}
