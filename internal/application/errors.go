package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")

	// ErrMissingField matches a ValidationError of kind KindMissingField.
	ErrMissingField = errors.New("application: missing required field")
	// ErrInvalidRange matches a ValidationError of kind KindInvalidRange.
	ErrInvalidRange = errors.New("application: start must be before end")
	// ErrTimeConflict matches a ValidationError of kind KindTimeConflict.
	ErrTimeConflict = errors.New("application: time conflict")
)

// ValidationKind identifies which validation stage rejected a form.
type ValidationKind string

const (
	KindMissingField ValidationKind = "missing_field"
	KindInvalidRange ValidationKind = "invalid_range"
	KindTimeConflict ValidationKind = "time_conflict"
)

// Default user-facing messages per kind.
const (
	MessageMissingField = "กรุณากรอกข้อมูลให้ครบถ้วน"
	MessageInvalidRange = "เวลาเริ่มต้องน้อยกว่าเวลาจบ"
	MessageTimeConflict = "เวลาเรียนชนกับวิชาอื่นในวันเดียวกันค่ะ"
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	Kind        ValidationKind
	FieldErrors map[string]string
	// ConflictID names the existing entry that overlaps, for KindTimeConflict.
	ConflictID string
	message    string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if v.Kind == "" {
		return "validation failed"
	}
	return "validation failed: " + string(v.Kind)
}

// Is lets errors.Is match the kind sentinels.
func (v *ValidationError) Is(target error) bool {
	if v == nil {
		return false
	}
	switch target {
	case ErrMissingField:
		return v.Kind == KindMissingField
	case ErrInvalidRange:
		return v.Kind == KindInvalidRange
	case ErrTimeConflict:
		return v.Kind == KindTimeConflict
	}
	return false
}

// Message returns the localized text shown to the user.
func (v *ValidationError) Message() string {
	if v == nil {
		return ""
	}
	if v.message != "" {
		return v.message
	}
	switch v.Kind {
	case KindInvalidRange:
		return MessageInvalidRange
	case KindTimeConflict:
		return MessageTimeConflict
	default:
		return MessageMissingField
	}
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}
