package sqlite

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// Scanner maps result columns onto struct fields by name: id -> ID, due_date -> DueDate.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanRowToStruct scans the current row. The caller advances rows.
func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destElem := destValue.Elem()

	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	targets := make([]interface{}, len(columns))

	for i, colName := range columns {
		field, ok := s.findStructField(destElem.Type(), colName)

		if !ok {
			targets[i] = new(interface{})
			continue
		}

		targets[i] = destElem.FieldByIndex(field.Index).Addr().Interface()
	}

	return rows.Scan(targets...)
}

// ScanOne advances rows once. It reports false when there is no row.
func (s *Scanner) ScanOne(rows *sql.Rows, dest interface{}) (bool, error) {
	if !rows.Next() {
		return false, rows.Err()
	}

	if err := s.ScanRowToStruct(rows, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	for rows.Next() {
		elemValue := reflect.New(elemType)

		if err := s.ScanRowToStruct(rows, elemValue.Interface()); err != nil {
			return err
		}

		sliceValue.Set(reflect.Append(sliceValue, elemValue.Elem()))
	}

	return rows.Err()
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if tag := field.Tag.Get("db"); tag != "" && strings.EqualFold(tag, colName) {
			return field, true
		}
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if strings.EqualFold(field.Name, colName) {
			return field, true
		}
	}

	if field, found := structType.FieldByName(s.snakeToCamel(colName)); found {
		return field, true
	}

	return reflect.StructField{}, false
}

func (s *Scanner) snakeToCamel(snake string) string {
	parts := strings.Split(snake, "_")

	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}

	return strings.Join(parts, "")
}
