package catalog

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{"ID", "Name", "Brand", "Price", "Inventory", "Description", "Category", "Images"}

// WriteXLSX writes products as a single-sheet workbook.
func WriteXLSX(w io.Writer, products []Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetInt(p.Inventory)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Category.Name)
		row.AddCell().SetInt(len(p.Images))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
