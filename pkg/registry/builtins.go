package registry

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/aretw0/modelo/pkg/attribute"
)

// Builtins returns a registry preloaded with the conversion factories every
// declaration file may use: int, float, string, bool, trim, lower and upper.
func Builtins() *Registry {
	r := NewRegistry()
	r.RegisterFactory("int", func(v any) (any, error) { return cast.ToIntE(v) })
	r.RegisterFactory("float", func(v any) (any, error) { return cast.ToFloat64E(v) })
	r.RegisterFactory("string", func(v any) (any, error) { return cast.ToStringE(v) })
	r.RegisterFactory("bool", func(v any) (any, error) { return cast.ToBoolE(v) })
	r.RegisterFactory("trim", stringFactory(strings.TrimSpace))
	r.RegisterFactory("lower", stringFactory(strings.ToLower))
	r.RegisterFactory("upper", stringFactory(strings.ToUpper))
	return r
}

func stringFactory(fn func(string) string) attribute.Factory {
	return func(v any) (any, error) {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}
