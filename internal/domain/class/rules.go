// internal/domain/class/rules.go
package class

import "strings"

// SuppressionRules is an ordered list of substring matchers against
// class names. A matching session is stored but never notified.
type SuppressionRules []string

// Match reports whether any rule matches the class name. Matching is
// case-insensitive on trimmed values; rules are checked in insertion
// order, first match wins.
func (r SuppressionRules) Match(className string) bool {
	name := strings.ToLower(strings.TrimSpace(className))
	for _, rule := range r {
		if rule == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(strings.TrimSpace(rule))) {
			return true
		}
	}
	return false
}
