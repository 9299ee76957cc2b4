package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/modelo/internal/dto"
)

// ValidateDocument checks the class references of doc before anything is
// built: names must be unique and non-empty, and each extends chain must end
// at a class that is declared in doc or reported by known, without looping.
func ValidateDocument(doc dto.Document, known func(name string) bool) error {
	declared := make(map[string]dto.ClassDecl, len(doc.Classes))
	var errors []string

	for i, c := range doc.Classes {
		if c.Name == "" {
			errors = append(errors, fmt.Sprintf("Class #%d has no name", i+1))
			continue
		}
		if _, dup := declared[c.Name]; dup {
			errors = append(errors, fmt.Sprintf("Duplicate class: '%s'", c.Name))
			continue
		}
		declared[c.Name] = c
	}

	for _, c := range doc.Classes {
		if _, ok := declared[c.Name]; !ok {
			continue
		}
		// Crawl the extends chain.
		visited := map[string]bool{c.Name: true}
		current := c
		for current.Extends != "" {
			base := current.Extends
			if visited[base] {
				errors = append(errors, fmt.Sprintf("Inheritance cycle through '%s'", c.Name))
				break
			}
			visited[base] = true

			next, ok := declared[base]
			if !ok {
				if known == nil || !known(base) {
					errors = append(errors, fmt.Sprintf("Missing base class: '%s' (extended by '%s')", base, current.Name))
				}
				break
			}
			current = next
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
