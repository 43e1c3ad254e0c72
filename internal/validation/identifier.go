package validation

import (
	"fmt"
	"regexp"
)

// IdentifierPattern определяет допустимый формат имени таблицы или колонки
// Начинается с буквы или подчеркивания, дальше латинские буквы, цифры, подчеркивание
// Длина: 1-63 символа (лимит идентификатора Postgres)
var IdentifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

const (
	// MaxIdentifierLen максимальная длина идентификатора
	MaxIdentifierLen = 63
)

// ValidateTableName проверяет, что имя таблицы можно безопасно подставить в запрос
func ValidateTableName(table string) error {
	if table == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	return validateIdentifier("table name", table)
}

// ValidateColumnName проверяет имя колонки (conflict key, фильтр)
func ValidateColumnName(column string) error {
	if column == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	return validateIdentifier("column name", column)
}

func validateIdentifier(kind, value string) error {
	if len(value) > MaxIdentifierLen {
		return fmt.Errorf("%s must not exceed %d characters", kind, MaxIdentifierLen)
	}

	if !IdentifierPattern.MatchString(value) {
		return fmt.Errorf("%s can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_), and must not start with a number", kind)
	}

	return nil
}
