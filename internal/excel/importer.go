package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductRow is one parsed row of a product import workbook.
type ProductRow struct {
	Name        string
	Description string
	Stock       int
	Price       decimal.Decimal
}

// Spreadsheets come from both Spanish and English speaking stores,
// so headers are matched against aliases in either language.
var headerAliases = map[string]string{
	"name":        "name",
	"product":     "name",
	"nombre":      "name",
	"producto":    "name",
	"description": "description",
	"descripcion": "description",
	"descripción": "description",
	"stock":       "stock",
	"quantity":    "stock",
	"existencia":  "stock",
	"existencias": "stock",
	"cantidad":    "stock",
	"price":       "price",
	"precio":      "price",
}

// ParseProducts reads the first sheet of an xlsx workbook into product rows.
// The header row is required; blank names skip the row.
func ParseProducts(reader io.Reader) ([]ProductRow, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	colMap := mapColumns(rows[0])
	if _, ok := colMap["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}
	if _, ok := colMap["price"]; !ok {
		return nil, fmt.Errorf("missing required column: price")
	}

	result := make([]ProductRow, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap["name"]))
		if name == "" {
			continue
		}

		price, err := parsePrice(readCell(cells, colMap["price"]))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid price: %w", index+1, err)
		}

		stock := 0
		if idx, ok := colMap["stock"]; ok {
			raw := strings.TrimSpace(readCell(cells, idx))
			if raw != "" {
				stock, err = parseInt(raw)
				if err != nil {
					return nil, fmt.Errorf("row %d invalid stock: %w", index+1, err)
				}
				if stock < 0 {
					return nil, fmt.Errorf("row %d invalid stock: must not be negative", index+1)
				}
			}
		}

		description := ""
		if idx, ok := colMap["description"]; ok {
			description = strings.TrimSpace(readCell(cells, idx))
		}

		result = append(result, ProductRow{
			Name:        name,
			Description: description,
			Stock:       stock,
			Price:       price,
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("value is empty")
	}
	asFloat, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.Mod(asFloat, 1) != 0 {
		return 0, fmt.Errorf("must be an integer")
	}
	return int(asFloat), nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	parsed, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if parsed.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}
	return parsed, nil
}
