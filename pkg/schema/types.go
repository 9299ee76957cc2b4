package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Type defines the contract for attribute value constraints.
// Implementations decide whether a value may be stored in an attribute.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from YAML/JSON decoding)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// AnyType accepts every non-nil value.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected a value, got nil")
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// GoType matches values against a Go type.
// When exact is false, any value assignable to the type is accepted (which
// includes implementations of an interface type). When exact is true the
// dynamic type must be identical.
type GoType struct {
	typ   reflect.Type
	exact bool
}

func (t *GoType) Name() string {
	if t.exact {
		return "=" + t.typ.String()
	}
	return t.typ.String()
}

func (t *GoType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected %s, got nil", t.typ)
	}
	vt := reflect.TypeOf(value)
	if t.exact {
		if vt != t.typ {
			return fmt.Errorf("expected exactly %s, got %s", t.typ, vt)
		}
		return nil
	}
	if !vt.AssignableTo(t.typ) {
		return fmt.Errorf("expected %s, got %s", t.typ, vt)
	}
	return nil
}

// UnionType accepts a value if any member type accepts it.
type UnionType struct {
	members []Type
}

func (t *UnionType) Name() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = m.Name()
	}
	return strings.Join(names, "|")
}

func (t *UnionType) Validate(value any) error {
	for _, m := range t.members {
		if m.Validate(value) == nil {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %T", t.Name(), value)
}

// NullableType accepts nil in addition to whatever its inner type accepts.
type NullableType struct {
	inner Type
}

func (t *NullableType) Name() string { return "?" + t.inner.Name() }

func (t *NullableType) Validate(value any) error {
	if isNil(value) {
		return nil
	}
	return t.inner.Validate(value)
}

// Inner returns the wrapped type.
func (t *NullableType) Inner() Type { return t.inner }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Any creates a validator accepting any non-nil value.
func Any() Type { return &AnyType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Of creates a validator accepting values assignable to T.
func Of[T any]() Type {
	return &GoType{typ: reflect.TypeFor[T]()}
}

// Exactly creates a validator accepting values whose dynamic type is T.
func Exactly[T any]() Type {
	return &GoType{typ: reflect.TypeFor[T](), exact: true}
}

// Reflect creates a validator for an already resolved reflect.Type.
func Reflect(typ reflect.Type, exact bool) Type {
	return &GoType{typ: typ, exact: exact}
}

// OneOf creates a validator accepting values matching any of the given types.
// A single member is returned unwrapped.
func OneOf(types ...Type) Type {
	if len(types) == 1 {
		return types[0]
	}
	return &UnionType{members: types}
}

// Nullable wraps t so that nil is also accepted.
func Nullable(t Type) Type {
	if n, ok := t.(*NullableType); ok {
		return n
	}
	return &NullableType{inner: t}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// --- Named types ---

var (
	namedMu sync.RWMutex
	named   = map[string]Type{}
)

// Register makes a type resolvable by name through ParseType.
// Registering a built-in name overrides it.
func Register(name string, t Type) {
	namedMu.Lock()
	defer namedMu.Unlock()
	named[name] = t
}

func lookup(name string) (Type, bool) {
	namedMu.RLock()
	defer namedMu.RUnlock()
	t, ok := named[name]
	return t, ok
}

// ParseType converts a type expression to a Type.
// Supports built-ins ("string", "int", "float", "bool", "any"), slices
// ("[string]"), unions ("int|string"), nullable types ("?string") and any name
// previously passed to Register.
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if typeStr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if strings.HasPrefix(typeStr, "?") {
		inner, err := ParseType(typeStr[1:])
		if err != nil {
			return nil, err
		}
		return Nullable(inner), nil
	}

	if strings.Contains(typeStr, "|") && !strings.HasPrefix(typeStr, "[") {
		parts := strings.Split(typeStr, "|")
		members := make([]Type, 0, len(parts))
		for _, part := range parts {
			m, err := ParseType(part)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return OneOf(members...), nil
	}

	// Handle slice types: [string], [int], etc.
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	if t, ok := lookup(typeStr); ok {
		return t, nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"first": "string", "age": "?int"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsNil reports whether value is nil or a typed nil pointer/map/slice/func.
func IsNil(value any) bool {
	return isNil(value)
}
