package schema

import (
	"maps"
	"slices"
)

// Schema is a map of field names to their expected types.
// Example: {"first": String(), "age": Nullable(Int()), "tags": Slice(String())}
type Schema map[string]Type

// Names returns the field names in sorted order.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Validate checks if data conforms to the schema.
// Fields whose type is Nullable may be absent; every other field is required.
// Failures are reported in field name order.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	var errs []error
	for _, fieldName := range schema.Names() {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if _, optional := fieldType.(*NullableType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Key: fieldName, Reason: "required"})
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: fieldName, Reason: err.Error(), Value: value})
		}
	}
	return Join(errs)
}

// ValidatePartial validates only the fields present in data.
// Keys that the schema does not define are reported as errors.
func ValidatePartial(schema Schema, data map[string]any) error {
	var errs []error
	for _, fieldName := range slices.Sorted(maps.Keys(data)) {
		value := data[fieldName]
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{Key: fieldName, Reason: "not defined in schema"})
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: fieldName, Reason: err.Error(), Value: value})
		}
	}
	return Join(errs)
}
