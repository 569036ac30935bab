package validation

import "sort"

// Message is the top-level text sent with every validation failure.
const Message = "The given data was invalid."

// ValidationError lists every offending field with its messages, keyed by the
// JSON field name.
type ValidationError struct {
	Errors map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	return Message
}

// Add appends msg to field.
func (e *ValidationError) Add(field, msg string) {
	if e.Errors == nil {
		e.Errors = make(map[string][]string)
	}
	e.Errors[field] = append(e.Errors[field], msg)
}

// Has reports whether field already failed.
func (e *ValidationError) Has(field string) bool {
	return len(e.Errors[field]) > 0
}

// Fields returns the failed field names, sorted.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e *ValidationError) empty() bool {
	return len(e.Errors) == 0
}
