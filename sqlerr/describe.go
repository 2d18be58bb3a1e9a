package sqlerr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gertd/go-pluralize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	plural         = pluralize.NewClient()
	uniqueKeyRegex = regexp.MustCompile(`^(.+)_(?:key|ukey)$`)
)

// Description is a classified error in a form that can be shown to a user.
type Description struct {
	// Code looks like USER_ALREADY_EXISTS.
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Describe explains err. Errors that are not server errors or not-found
// errors get a generic description.
func Describe(err error) Description {
	if IsNotFound(err) {
		return Description{Code: "RECORD_NOT_FOUND", Message: "Resource not found"}
	}

	sqlErr := Convert(err)
	if sqlErr == nil {
		return Description{Code: "INTERNAL_ERROR", Message: "An error occurred while processing your request"}
	}

	d := Description{
		Code:    errorCode(sqlErr.TableName, sqlErr.Code),
		Message: userMessage(sqlErr),
	}
	switch sqlErr.Code {
	case UniqueViolation:
		if column := uniqueColumn(sqlErr.TableName, sqlErr.ConstraintName); column != "" {
			d.Message = strings.ReplaceAll(d.Message, "identifier", humanize(column))
			d.Field = column
		}
	case NotNullViolation, CheckViolation:
		d.Field = strings.ToLower(sqlErr.ColumnName)
	}
	return d
}

func errorCode(tableName string, code Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(plural.Singular(tableName))
	}

	action := "ERROR"
	switch code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}
	return fmt.Sprintf("%s_%s", domain, action)
}

func userMessage(sqlErr *Error) string {
	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entity)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entity)
	case NotNullViolation:
		field := humanize(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		if field := humanize(sqlErr.ColumnName); field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

func entityName(tableName, columnName string) string {
	if column := strings.ToLower(columnName); strings.HasSuffix(column, "_id") {
		return humanize(strings.TrimSuffix(column, "_id"))
	}
	if tableName != "" {
		return humanize(plural.Singular(tableName))
	}
	return "record"
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// uniqueColumn guesses the column from a constraint name such as
// users_first_name_key or unique_users_email.
func uniqueColumn(table, constraint string) string {
	var column string
	if rest, ok := strings.CutPrefix(constraint, "unique_"); ok {
		column = rest
	} else if m := uniqueKeyRegex.FindStringSubmatch(constraint); len(m) > 1 {
		column = m[1]
	} else {
		return ""
	}

	if table == "" {
		// Without a table to strip, fall back to the last segment.
		return column[strings.LastIndex(column, "_")+1:]
	}
	return strings.TrimPrefix(column, table+"_")
}
