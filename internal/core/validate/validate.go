// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// DocumentID validates a document id is non-empty after trimming whitespace
// and holds no control characters.
func DocumentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is required")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("document id contains control character %q", r)
		}
	}
	return nil
}

// DocumentIDField returns a criterio validator for document ids.
func DocumentIDField(field, id string) error {
	return criterio.Run(field, id, DocumentID)
}
