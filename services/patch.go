package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// Patch is a partial update as sent by the admin UI: field name to raw JSON
// value. A key that is present with a null value clears an optional field.
type Patch map[string]json.RawMessage

func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Only reports whether field is the sole key of the patch.
func (p Patch) Only(field string) bool {
	return len(p) == 1 && p.Has(field)
}

// Fields returns the keys in sorted order.
func (p Patch) Fields() []string {
	fields := make([]string, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// check rejects system managed fields first, then anything not writable.
func (p Patch) check(readOnly, writable []string) error {
	for _, f := range p.Fields() {
		for _, ro := range readOnly {
			if f == ro {
				return errs.NewReadOnlyFieldError(f)
			}
		}
	}
	for _, f := range p.Fields() {
		known := false
		for _, w := range writable {
			if f == w {
				known = true
				break
			}
		}
		if !known {
			return errs.NewValidationError(f, fmt.Sprintf("%s is not a known field", f))
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func decodeField[T any](p Patch, field string) (T, error) {
	var v T
	if err := json.Unmarshal(p[field], &v); err != nil {
		return v, errs.NewValidationError(field, fmt.Sprintf("%s has the wrong type", field))
	}
	return v, nil
}

// requiredText decodes a string field that may not be blank.
func requiredText(p Patch, field string) (string, error) {
	if isNull(p[field]) {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	s, err := decodeField[string](p, field)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	return s, nil
}

// optionalText decodes a nullable string; blank strings become NULL.
func optionalText(p Patch, field string) (*string, error) {
	if isNull(p[field]) {
		return nil, nil
	}
	s, err := decodeField[string](p, field)
	if err != nil {
		return nil, err
	}
	return trimmedOrNil(s), nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalColumn stores an optional text field in changes, using nil for NULL.
func optionalColumn(changes map[string]any, p Patch, field, column string) error {
	if !p.Has(field) {
		return nil
	}
	v, err := optionalText(p, field)
	if err != nil {
		return err
	}
	if v == nil {
		changes[column] = nil
	} else {
		changes[column] = *v
	}
	return nil
}

// textColumn stores a required text field in changes.
func textColumn(changes map[string]any, p Patch, field, column string) error {
	if !p.Has(field) {
		return nil
	}
	v, err := requiredText(p, field)
	if err != nil {
		return err
	}
	changes[column] = v
	return nil
}

func intColumn(changes map[string]any, p Patch, field, column string) error {
	if !p.Has(field) {
		return nil
	}
	v, err := decodeField[int](p, field)
	if err != nil {
		return err
	}
	changes[column] = v
	return nil
}

func boolColumn(changes map[string]any, p Patch, field, column string) error {
	if !p.Has(field) {
		return nil
	}
	v, err := decodeField[bool](p, field)
	if err != nil {
		return err
	}
	changes[column] = v
	return nil
}
