package match

import (
	"fmt"

	"rewrite/internal/diag"
)

// PatternSyntaxError reports a malformed pattern string. Offset is the byte
// position in the pattern where the problem was detected.
type PatternSyntaxError struct {
	Pattern string
	Offset  int
	Reason  string
}

func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("malformed method pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Reason)
}

// Code returns the diagnostic code of the failure.
func (e *PatternSyntaxError) Code() diag.Code { return diag.RwrPatternSyntax }
