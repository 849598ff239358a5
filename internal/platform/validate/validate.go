// Copyright (c) 2026 Mogcord. All rights reserved.

// Package validate provides a chainable Validator that collects field-level
// failures before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers validate request payloads before calling into services, so that
// business logic only ever operates on semantically valid data. All failures
// collapse into one InValid error tagged INVALID_PARAMS.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// Validator collects field-level validation failures via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request.
type Validator struct {
	failures []string
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "must be a valid email address")
	}
	return v
}

// UUID fails if the value is not a valid UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.IsValid(value) {
		v.add(field, "must be a valid id")
	}
	return v
}

// UUIDs fails if any value in the slice is not a valid UUID string.
func (v *Validator) UUIDs(field string, values []string) *Validator {
	for _, value := range values {
		if !uuid.IsValid(value) {
			v.add(field, "must contain only valid ids")
			break
		}
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Err returns an InValid [apperr.AppError] tagged INVALID_PARAMS if any rule
// failed, or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}

	joined := strings.Join(v.failures, "; ")
	return apperr.New(apperr.KindInValid, apperr.SubjectNone).
		AddDebug("fields", joined).
		AddClient(apperr.ClientInvalidParams).
		AddPublic(joined)
}

// add appends a formatted field failure.
func (v *Validator) add(field, message string) {
	v.failures = append(v.failures, field+" "+message)
}
