package validation

import (
	"fmt"
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern - general lowercase form
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StudentEmailPattern builds the strict institutional email pattern for the
// given domain: two digits, two letters, three digits, then the fixed domain
// suffix (e.g. 22cs101@school.edu).
func StudentEmailPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^\d{2}[a-z]{2}\d{3}@%s$`, regexp.QuoteMeta(domain)))
}

// DepartmentFromEmail extracts the department tag from a student email.
// The tag occupies a fixed substring range of the identifier: characters
// three and four (e.g. "cs" in 22cs101@school.edu). Returns false when the
// email is too short to carry one.
func DepartmentFromEmail(email string) (string, bool) {
	if len(email) < 4 {
		return "", false
	}
	return email[2:4], true
}
