package services

import "strings"

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError accumulates every violation found in a request rather
// than stopping at the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Field)
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	return b.String()
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}
