package stations

import (
	"regexp"
	"strings"
)

// NameCleaner strips the decorative suffixes the upstream feed tacks
// onto station names, e.g. "Plac Litewski (LRM)" or "Dworzec *(serwis)".
// Cleanup is presentation-only: stored registry entries and logged
// station ids keep the original values.
type NameCleaner struct {
	pattern *regexp.Regexp
}

func NewNameCleaner() *NameCleaner {
	return &NameCleaner{
		pattern: regexp.MustCompile(`\*?\(.+`),
	}
}

func (c *NameCleaner) Clean(name string) string {
	return strings.TrimSpace(c.pattern.ReplaceAllString(name, ""))
}
