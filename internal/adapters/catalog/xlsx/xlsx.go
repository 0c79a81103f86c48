// Package xlsx reads catalog exports from spreadsheets into product upserts
package xlsx

import (
	"io"
	"strconv"
	"strings"

	"tdsdesk/internal/core/normalize"
	perr "tdsdesk/internal/platform/errors"
	pdom "tdsdesk/internal/services/products/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type column int

const (
	colBranch column = iota
	colCode
	colReference
	colDescription
	colBarcode1
	colBarcode2
	colBrand
	colSection
	colBalance
	colPrice
	colAverageCost
	colDeleted
	numColumns
)

// aliases maps folded header names to columns, with or without the product_ prefix
var aliases = map[string]column{
	"branchid":    colBranch,
	"branch_id":   colBranch,
	"filial":      colBranch,
	"code":        colCode,
	"codigo":      colCode,
	"reference":   colReference,
	"referencia":  colReference,
	"description": colDescription,
	"descricao":   colDescription,
	"barcode1":    colBarcode1,
	"ean":         colBarcode1,
	"barcode2":    colBarcode2,
	"brand":       colBrand,
	"marca":       colBrand,
	"section":     colSection,
	"secao":       colSection,
	"balance":     colBalance,
	"saldo":       colBalance,
	"estoque":     colBalance,
	"price":       colPrice,
	"preco":       colPrice,
	"averagecost": colAverageCost,
	"custo_medio": colAverageCost,
	"custo medio": colAverageCost,
	"deleted":     colDeleted,
	"excluido":    colDeleted,
}

// RowError points at a cell that could not be read
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + " column " + e.Column + ": " + e.Err.Error()
}

func (e *RowError) Unwrap() error { return e.Err }

// Read parses the first sheet of the workbook in r
// the first row is the header; code and description columns are required
func Read(r io.Reader) ([]pdom.ProductUpsert, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, perr.InvalidArgf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read sheet %s", sheet)
	}
	return FromRows(rows)
}

// FromRows maps spreadsheet rows, header first, to upserts
// blank rows are dropped
func FromRows(rows [][]string) ([]pdom.ProductUpsert, error) {
	if len(rows) == 0 {
		return nil, perr.InvalidArgf("sheet is empty")
	}
	idx := headerIndex(rows[0])
	if idx[colCode] < 0 || idx[colDescription] < 0 {
		return nil, perr.InvalidArgf("header must name code and description columns")
	}

	out := make([]pdom.ProductUpsert, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		cell := func(c column) string {
			j := idx[c]
			if j < 0 || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		u := pdom.ProductUpsert{
			Code:        cell(colCode),
			Reference:   cell(colReference),
			Description: cell(colDescription),
			Barcode1:    cell(colBarcode1),
			Barcode2:    cell(colBarcode2),
			Brand:       cell(colBrand),
			Section:     cell(colSection),
			Deleted:     truthy(cell(colDeleted)),
		}
		if s := cell(colBranch); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, &RowError{Row: line, Column: "branch", Err: err}
			}
			u.BranchID = n
		}
		if s := cell(colBalance); s != "" {
			d, err := Amount(s)
			if err != nil {
				return nil, &RowError{Row: line, Column: "balance", Err: err}
			}
			u.Balance = int(d.IntPart())
		}
		var err error
		if u.Price, err = nullAmount(cell(colPrice)); err != nil {
			return nil, &RowError{Row: line, Column: "price", Err: err}
		}
		if u.AverageCost, err = nullAmount(cell(colAverageCost)); err != nil {
			return nil, &RowError{Row: line, Column: "average_cost", Err: err}
		}
		out = append(out, u)
	}
	return out, nil
}

// Amount parses 1234.5, 1234,5 and 1.234,56
func Amount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func nullAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := Amount(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func headerIndex(header []string) [numColumns]int {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		key := strings.TrimPrefix(normalize.Fold(h), "product_")
		if c, ok := aliases[key]; ok && idx[c] < 0 {
			idx[c] = i
		}
	}
	return idx
}

func truthy(s string) bool {
	switch normalize.Fold(s) {
	case "1", "true", "sim", "s", "x", "yes":
		return true
	}
	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
