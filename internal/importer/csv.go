// Package importer turns uploaded CSV files into import rows for the staging pipeline.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

type column int

const (
	colClientName column = iota
	colClientEmail
	colCaseTitle
	colDate
	colDirection
	colAmount
	colPayee
	colReference
	colDescription
)

// headerAliases maps accepted header spellings, lower-cased, to columns.
var headerAliases = map[string]column{
	"client":           colClientName,
	"client_name":      colClientName,
	"client name":      colClientName,
	"client_email":     colClientEmail,
	"client email":     colClientEmail,
	"email":            colClientEmail,
	"case":             colCaseTitle,
	"case_title":       colCaseTitle,
	"case title":       colCaseTitle,
	"matter":           colCaseTitle,
	"date":             colDate,
	"transaction_date": colDate,
	"transaction date": colDate,
	"direction":        colDirection,
	"type":             colDirection,
	"amount":           colAmount,
	"payee":            colPayee,
	"reference":        colReference,
	"check_number":     colReference,
	"check number":     colReference,
	"description":      colDescription,
	"memo":             colDescription,
}

var requiredColumns = map[column]string{
	colDate:        "transaction_date",
	colDirection:   "direction",
	colAmount:      "amount",
	colPayee:       "payee",
	colDescription: "description",
}

// ParseCSV reads a header row followed by data rows. Values are trimmed but otherwise left
// textual; the import service validates each row and reports failures per row. Row numbers
// count data rows from 1. Blank lines are skipped.
func ParseCSV(r io.Reader) ([]dto.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index := make(map[column]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := headerAliases[key]; ok {
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
	}
	var missing []string
	for col, name := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var rows []dto.ImportRow
	rowNumber := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", rowNumber+1, err)
		}
		rowNumber++
		if isBlank(rec) {
			continue
		}
		get := func(col column) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, dto.ImportRow{
			Row:             rowNumber,
			ClientName:      get(colClientName),
			ClientEmail:     get(colClientEmail),
			CaseTitle:       get(colCaseTitle),
			TransactionDate: get(colDate),
			Direction:       get(colDirection),
			Amount:          get(colAmount),
			Payee:           get(colPayee),
			Reference:       get(colReference),
			Description:     get(colDescription),
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
