package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type catalogRecord struct {
	Category string
	Value    int
	Prompt   string
	Answer   string
}

// LoadCatalog reads a category,value,prompt,answer CSV and upserts the rows
// into the categories and questions tables.
func LoadCatalog(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := readCatalog(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, record := range records {
		category := Category{Name: record.Category}
		if err := conn.FirstOrCreate(&category, Category{Name: category.Name}).Error; err != nil {
			return inserted, err
		}
		question := Question{
			CategoryID: category.ID,
			Value:      record.Value,
			Prompt:     record.Prompt,
			Answer:     record.Answer,
		}
		lookup := Question{CategoryID: category.ID, Value: record.Value, Prompt: record.Prompt}
		if err := conn.FirstOrCreate(&question, lookup).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func readCatalog(path string) ([]catalogRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []catalogRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			continue
		}
		category := strings.TrimSpace(row[0])
		prompt := strings.TrimSpace(row[2])
		answer := strings.TrimSpace(row[3])
		if category == "" || prompt == "" || answer == "" {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q", i+1, row[1])
		}
		if value < 100 || value > 500 || value%100 != 0 {
			return nil, fmt.Errorf("row %d: value must be one of 100..500, got %d", i+1, value)
		}
		records = append(records, catalogRecord{
			Category: category,
			Value:    value,
			Prompt:   prompt,
			Answer:   answer,
		})
	}
	return records, nil
}
