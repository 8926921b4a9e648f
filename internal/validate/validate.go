// Package validate holds the pure field-level rule checks for every
// entity kind. Validators inspect only the raw input record, perform
// no I/O, and collect every violated rule so callers can report all
// problems in one response.
package validate

import "strings"

func required(msgs []string, value, msg string) []string {
	if strings.TrimSpace(value) == "" {
		return append(msgs, msg)
	}
	return msgs
}

func maxLength(msgs []string, value string, max int, msg string) []string {
	if len(strings.TrimSpace(value)) > max {
		return append(msgs, msg)
	}
	return msgs
}
