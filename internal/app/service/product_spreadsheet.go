package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const productSheet = "Products"

var productColumns = []string{"ID", "Name", "Description", "Price", "Category", "Image", "Status", "Created At"}

var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

// RowError describes a spreadsheet row that was skipped on import.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ImportReport struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ExportProducts writes every product as an XLSX workbook with a single sheet.
func (s *productAdminService) ExportProducts(w io.Writer) error {
	products, err := s.ListAllProducts()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), productSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(productColumns))
	for i, col := range productColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(productSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(productSheet, 1, 1, style)
	}
	_ = f.SetColWidth(productSheet, "B", "C", 32)

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.ID,
			p.Name,
			p.Description,
			p.Price.StringFixed(2),
			p.Category,
			p.ImageURL,
			string(p.Status),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(productSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write product export", err)
		return err
	}

	logger.Info("Products exported", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

// ImportProducts reads the first sheet of an XLSX workbook. Columns are matched
// by header name (case-insensitive); ID and Created At are ignored. Rows that
// fail validation are skipped and reported, the rest are inserted in one batch.
func (s *productAdminService) ImportProducts(r io.Reader) (*ImportReport, *Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		logger.Warn("Product import rejected: unreadable workbook", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil, &OperationError{Kind: KindValidation, Field: "file", Message: "The file is not a valid XLSX workbook.", Err: ErrInvalidSpreadsheet}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) == 0 {
		return nil, nil, &OperationError{Kind: KindValidation, Field: "file", Message: "The workbook has no rows.", Err: ErrInvalidSpreadsheet}
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, nil, &OperationError{
				Kind:    KindValidation,
				Field:   "file",
				Message: fmt.Sprintf("Missing %q column.", required),
				Err:     ErrInvalidSpreadsheet,
			}
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	report := &ImportReport{}
	var products []model.Product
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		input := ProductInput{
			Name:        cell(row, "name"),
			Description: cell(row, "description"),
			Price:       cell(row, "price"),
			Category:    cell(row, "category"),
			Image:       strings.TrimSpace(cell(row, "image")),
			Status:      cell(row, "status"),
		}
		if strings.TrimSpace(input.Status) == "" {
			input.Status = string(model.ProductStatusActive)
		}

		v, err := validateProductInput(input)
		if err != nil {
			var opErr *OperationError
			errors.As(err, &opErr)
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Field: opErr.Field, Message: opErr.Message})
			continue
		}

		products = append(products, model.Product{
			Name:        v.name,
			Description: v.description,
			Price:       v.price,
			Category:    v.category,
			ImageURL:    input.Image,
			Status:      v.status,
		})
	}

	if len(products) == 0 {
		logger.Warn("Product import found no valid rows", map[string]interface{}{
			"skipped": report.Skipped,
		})
		return report, nil, &OperationError{Kind: KindValidation, Field: "file", Message: "No valid product rows found.", Err: ErrInvalidSpreadsheet}
	}

	if err := s.productRepo.BulkCreate(products); err != nil {
		logger.Error("Failed to import products", err, map[string]interface{}{
			"count": len(products),
		})
		return nil, nil, unavailableError("Failed to import products.", err)
	}
	report.Imported = len(products)

	logger.Info("Products imported", map[string]interface{}{
		"imported": report.Imported,
		"skipped":  report.Skipped,
	})
	return report, newResult(ResultImported, fmt.Sprintf("%d products imported successfully!", report.Imported)), nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
