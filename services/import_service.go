package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/plutarco/tienda-api/models"
)

// ImportSummary reports the outcome of a bulk import: row counts plus
// per-row diagnostics. Bad rows are skipped, never fatal.
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// EnablementSummary reports the outcome of an enablement-list import.
type EnablementSummary struct {
	Enabled  int      `json:"enabled"`
	Disabled int      `json:"disabled"`
	NotFound []string `json:"not_found"`
}

// DisplayOrderSummary reports the outcome of a display-order import.
type DisplayOrderSummary struct {
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched"`
}

// Expected (locale-specific) column headers of the supplier product sheet.
const (
	colProductCode     = "CODIGO BARRA"
	colProductCodeAlt  = "ID"
	colProductName     = "DESCRIPCION LARGA"
	colProductNameAlt  = "DESCRIPCION"
	colProductDesc     = "DESCRIPCION ADICIONAL"
	colProductCategory = "RUBRO"
	colProductSubcat   = "SUBRUBRO"
	colProductPrice    = "PRECIO VENTA C/IVA"
	colProductSupplier = "PROVEEDOR"
)

// Expected column headers of the order sheet.
const (
	colOrderName      = "Nombre"
	colOrderEmail     = "Email"
	colOrderPhone     = "Telefono"
	colOrderAddress   = "Direccion"
	colOrderComment   = "Comentario"
	colOrderDay       = "dia de entrega"
	colOrderTotal     = "total"
	colOrderTotalAlt  = "Total"
	colOrderTotalAlt2 = "Subtotal"
	colOrderConfirmed = "confirmado y pagado"
	colOrderDelivered = "entregado"
	colOrderProducts  = "Productos"
)

// sheetRow gives header-keyed access to one spreadsheet row.
type sheetRow map[string]string

func (r sheetRow) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[strings.ToLower(k)]); v != "" {
			return v
		}
	}
	return ""
}

// readSheet loads the first sheet of an xlsx file into header-keyed rows.
func readSheet(src io.Reader) ([]sheetRow, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, errors.New("spreadsheet has no header row")
	}

	headers := rows[0]
	var out []sheetRow
	for _, cells := range rows[1:] {
		row := make(sheetRow, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[strings.ToLower(strings.TrimSpace(h))] = cells[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// generatedCode derives a stable identifier for a product row that has a
// name but no code, so reimporting the same sheet updates rather than
// duplicates.
func generatedCode(name string) string {
	return fmt.Sprintf("GEN-%08X", crc32.ChecksumIEEE([]byte(strings.ToUpper(name))))
}

// ImportProducts upserts catalog rows from an xlsx sheet, keyed by code.
func ImportProducts(db *gorm.DB, src io.Reader) (*ImportSummary, error) {
	rows, err := readSheet(src)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header row

		code := row.get(colProductCode, colProductCodeAlt)
		name := row.get(colProductName, colProductNameAlt)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: missing product name", rowNum))
			continue
		}
		if code == "" {
			code = generatedCode(name)
		}

		values := models.Product{
			Code:        code,
			Name:        name,
			Description: row.get(colProductDesc),
			Category:    row.get(colProductCategory),
			Subcategory: row.get(colProductSubcat),
			Price:       ParseMoney(row.get(colProductPrice)),
			Supplier:    row.get(colProductSupplier),
		}

		var existing models.Product
		err := db.Where("code = ?", code).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"name":        values.Name,
				"description": values.Description,
				"category":    values.Category,
				"subcategory": values.Subcategory,
				"price":       values.Price,
				"supplier":    values.Supplier,
			}
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			summary.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			values.Enabled = true
			if err := db.Create(&values).Error; err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			summary.Created++
		default:
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}

	return summary, nil
}

// ImportOrders creates orders from an xlsx sheet. The free-text Productos
// cell parses into line items; when it is empty a single synthetic line
// carries the sheet total so the recomputed totals still match the sheet.
func ImportOrders(db *gorm.DB, src io.Reader) (*ImportSummary, error) {
	rows, err := readSheet(src)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 2

		name := row.get(colOrderName)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: missing customer name", rowNum))
			continue
		}

		total := ParseMoney(row.get(colOrderTotal, colOrderTotalAlt, colOrderTotalAlt2))

		order := models.Order{
			CustomerName: name,
			Email:        row.get(colOrderEmail),
			Phone:        row.get(colOrderPhone),
			Address:      row.get(colOrderAddress),
			Comment:      row.get(colOrderComment),
			DeliveryDate: ParseDay(row.get(colOrderDay)),
			Confirmed:    parseBoolCell(row.get(colOrderConfirmed)),
			Delivered:    parseBoolCell(row.get(colOrderDelivered)),
		}

		var items []ItemInput
		for _, result := range ParseProductsCell(row.get(colOrderProducts)) {
			if !result.Recognized() {
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %s", rowNum, result.Reason))
				continue
			}
			items = append(items, ItemInput{
				Code:      result.Line.Code,
				Name:      result.Line.Name,
				Quantity:  result.Line.Quantity,
				UnitPrice: result.Line.UnitPrice,
			})
		}
		if len(items) == 0 {
			items = append(items, ItemInput{
				Code:      "GENERIC",
				Name:      "PRODUCTO GENERICO",
				Quantity:  1,
				UnitPrice: total,
			})
		}

		if _, err := CreateOrder(db, &order, items); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		summary.Created++
	}

	return summary, nil
}

func parseBoolCell(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRUE", "SI", "1", "VERDADERO":
		return true
	}
	return false
}

// ImportEnabled sets the enabled flag for every code in the list; when
// disableMissing is set, every product absent from the list is disabled.
func ImportEnabled(db *gorm.DB, codes []string, disableMissing bool) (*EnablementSummary, error) {
	summary := &EnablementSummary{NotFound: []string{}}

	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if c := strings.TrimSpace(code); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if disableMissing && len(cleaned) > 0 {
			res := tx.Model(&models.Product{}).
				Where("code NOT IN ?", cleaned).
				Where("enabled = ?", true).
				Update("enabled", false)
			if res.Error != nil {
				return fmt.Errorf("failed to disable missing products: %w", res.Error)
			}
			summary.Disabled = int(res.RowsAffected)
		}

		for _, code := range cleaned {
			res := tx.Model(&models.Product{}).Where("code = ?", code).Update("enabled", true)
			if res.Error != nil {
				return fmt.Errorf("failed to enable product %s: %w", code, res.Error)
			}
			if res.RowsAffected == 0 {
				summary.NotFound = append(summary.NotFound, code)
				continue
			}
			summary.Enabled++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportDisplayOrder assigns display-order positions from a CSV of
// (name-or-code, position) rows. Matching tries exact name, then unique
// substring, then code; everything else lands in the unmatched list.
func ImportDisplayOrder(db *gorm.DB, src io.Reader) (*DisplayOrderSummary, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	summary := &DisplayOrderSummary{Unmatched: []string{}}
	for i, record := range records {
		if len(record) < 2 {
			summary.Unmatched = append(summary.Unmatched, fmt.Sprintf("row %d: expected name,position", i+1))
			continue
		}

		key := strings.TrimSpace(record[0])
		if i == 0 && !isNumeric(record[1]) {
			// header row
			continue
		}
		position, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			summary.Unmatched = append(summary.Unmatched, fmt.Sprintf("%s: invalid position %q", key, record[1]))
			continue
		}

		product, err := matchProduct(db, key)
		if err != nil {
			summary.Unmatched = append(summary.Unmatched, key)
			continue
		}

		if err := db.Model(product).Update("display_order", position).Error; err != nil {
			summary.Unmatched = append(summary.Unmatched, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		summary.Matched++
	}

	return summary, nil
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// matchProduct resolves a display-order import key to a product: exact name
// first, then a substring match when it is unambiguous, then code.
func matchProduct(db *gorm.DB, key string) (*models.Product, error) {
	var product models.Product
	if err := db.Where("name = ?", key).First(&product).Error; err == nil {
		return &product, nil
	}

	var candidates []models.Product
	pattern := "%" + strings.ToLower(key) + "%"
	if err := db.Where("LOWER(name) LIKE ?", pattern).Limit(2).Find(&candidates).Error; err == nil && len(candidates) == 1 {
		return &candidates[0], nil
	}

	if err := db.Where("code = ?", key).First(&product).Error; err == nil {
		return &product, nil
	}

	return nil, gorm.ErrRecordNotFound
}
