// Package registry maps names to attribute delegate functions so classes can
// be declared in data files and bound to Go code at load time.
package registry
