package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/silo/core"
)

// Intent is the structured form of one free-text search request. Parsing
// is deterministic and total: every input produces an Intent, possibly
// with all fields empty, which retrieval treats as "match everything,
// most recent first".
type Intent struct {
	// Since and Until bound the time window: Since <= t < Until.
	// A zero value leaves that side unbounded.
	Since time.Time
	Until time.Time

	// RecencyOnly marks "recent"/"latest" style queries: no window, just
	// most-recent-first.
	RecencyOnly bool

	// Entity is the normalized form of a "from <name>" / "by <name>"
	// filter, empty when the query names no one.
	Entity string

	// Terms is the residual free text after temporal phrases, entity
	// phrases and stop words are stripped.
	Terms string

	// Raw is the original query text.
	Raw string
}

// Empty reports whether the intent constrains nothing.
func (i *Intent) Empty() bool {
	return i.Since.IsZero() && i.Until.IsZero() && i.Entity == "" && i.Terms == ""
}

// stopWords are filler tokens dropped from the free-text residue.
var stopWords = map[string]bool{
	"the": true, "and": true, "about": true, "please": true,
	"show": true, "find": true, "me": true, "for": true,
	"that": true, "this": true, "what": true, "was": true,
	"were": true, "is": true, "are": true, "be": true,
	"a": true, "an": true, "to": true, "on": true, "in": true,
	"my": true, "our": true, "i": true, "we": true,
}

// temporalTokens are tokens consumed by window extraction; any survivor
// is dropped from the residue so "last week" never becomes a search term.
var temporalTokens = map[string]bool{
	"today": true, "yesterday": true, "tonight": true,
	"week": true, "month": true, "year": true,
	"weeks": true, "months": true, "days": true, "day": true, "years": true,
	"recent": true, "latest": true, "last": true,
}

var (
	entityPattern   = regexp.MustCompile(`(?i)\b(?:from|by|with|shared by)\s+([A-Za-z0-9][A-Za-z0-9_\-]*)`)
	lastUnitPattern = regexp.MustCompile(`last\s+(\d+)\s+(day|week|month)s?`)
	tokenPattern    = regexp.MustCompile(`[a-z0-9']+`)
)

// Parse parses a search request anchored to the current time.
func Parse(text string) *Intent {
	return ParseAt(time.Now().UTC(), text)
}

// ParseAt parses a search request with an explicit anchor time, so tests
// and replays resolve relative phrases deterministically.
func ParseAt(now time.Time, text string) *Intent {
	intent := &Intent{Raw: text}
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return intent
	}

	if strings.Contains(lower, "recent") || strings.Contains(lower, "latest") {
		intent.RecencyOnly = true
	}

	// Window first: "from last week" must resolve as a temporal phrase,
	// not an entity named "last".
	lower = extractWindow(now, lower, intent)
	lower = extractEntity(lower, intent)

	var residue []string
	for _, token := range tokenPattern.FindAllString(lower, -1) {
		if stopWords[token] || temporalTokens[token] {
			continue
		}
		residue = append(residue, token)
	}
	intent.Terms = strings.Join(residue, " ")

	return intent
}

// extractEntity lifts the first "from <name>" style phrase into the entity
// filter and removes it from the text.
func extractEntity(lower string, intent *Intent) string {
	for _, match := range entityPattern.FindAllStringSubmatchIndex(lower, -1) {
		name := lower[match[2]:match[3]]
		if stopWords[name] || temporalTokens[name] {
			continue
		}
		intent.Entity = core.NormalizeEntity(name)
		return lower[:match[0]] + " " + lower[match[1]:]
	}
	return lower
}

// extractWindow resolves the first recognized temporal phrase to a concrete
// [Since, Until) window anchored at now, and removes the phrase.
func extractWindow(now time.Time, lower string, intent *Intent) string {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if match := lastUnitPattern.FindStringSubmatch(lower); match != nil {
		n, err := strconv.Atoi(match[1])
		if err == nil && n > 0 {
			switch match[2] {
			case "day":
				intent.Since = now.AddDate(0, 0, -n)
			case "week":
				intent.Since = now.AddDate(0, 0, -7*n)
			case "month":
				intent.Since = now.AddDate(0, 0, -30*n)
			}
			intent.Until = now
			return strings.Replace(lower, match[0], " ", 1)
		}
	}

	switch {
	case strings.Contains(lower, "today"):
		intent.Since = midnight
		intent.Until = midnight.AddDate(0, 0, 1)
		return strings.Replace(lower, "today", " ", 1)
	case strings.Contains(lower, "yesterday"):
		intent.Since = midnight.AddDate(0, 0, -1)
		intent.Until = midnight
		return strings.Replace(lower, "yesterday", " ", 1)
	case strings.Contains(lower, "last week"):
		intent.Since = now.AddDate(0, 0, -7)
		intent.Until = now
		return strings.Replace(lower, "last week", " ", 1)
	case strings.Contains(lower, "last month"):
		intent.Since = now.AddDate(0, 0, -30)
		intent.Until = now
		return strings.Replace(lower, "last month", " ", 1)
	case strings.Contains(lower, "last year"):
		intent.Since = now.AddDate(0, 0, -365)
		intent.Until = now
		return strings.Replace(lower, "last year", " ", 1)
	}
	return lower
}
