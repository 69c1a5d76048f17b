package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

// parseWorkbook returns the cell rows of the first sheet.
func parseWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// decodeExamples maps raw rows onto training examples, deriving the
// divorce status category from the yes/no column.
func decodeExamples(rows [][]string) ([]domain.TrainingExample, error) {
	if len(rows) == 0 {
		return nil, errors.New("dataset is empty")
	}
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("column %q is missing", name)
		}
	}

	examples := make([]domain.TrainingExample, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if blankRow(row) {
			continue
		}
		cell := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		var (
			values = make(map[string]float64, 4)
			err    error
		)
		for _, name := range []string{rawChildAge, rawFatherSalary, rawMotherSalary, rawCompensationAmount} {
			if values[name], err = parseNumber(cell(name)); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, name, err)
			}
		}
		if values[rawCompensationAmount] < 0 {
			return nil, fmt.Errorf("row %d column %s: negative amount", line, rawCompensationAmount)
		}
		reason := cell(rawReasonForDivorce)
		custody := cell(rawCustodyGrantedTo)
		if reason == "" || custody == "" {
			return nil, fmt.Errorf("row %d: %s and %s are required", line, rawReasonForDivorce, rawCustodyGrantedTo)
		}

		examples = append(examples, domain.TrainingExample{
			Record: domain.CaseRecord{
				DivorceStatus:    domain.DeriveDivorceStatus(cell(rawDivorceStatus)),
				ReasonForDivorce: reason,
				ChildAge:         values[rawChildAge],
				FatherSalary:     values[rawFatherSalary],
				MotherSalary:     values[rawMotherSalary],
			},
			CustodyGrantedTo: custody,
			Compensation:     values[rawCompensationAmount],
		})
	}
	if len(examples) == 0 {
		return nil, errors.New("dataset has no data rows")
	}
	return examples, nil
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("value is empty")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
