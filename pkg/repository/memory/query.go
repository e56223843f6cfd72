package memory

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
)

// The in-memory store evaluates the same query grammar the filter model
// serializes: clauses conjoined with AND, where a clause is a quoted
// field term, a parenthesized OR group of terms over one field, a date
// range, or bare keyword text.

type matcher func(a *alert.Alert) bool

func parseQuery(query string) ([]matcher, error) {
	var matchers []matcher
	for _, raw := range splitClauses(query) {
		m, err := parseClause(raw)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// splitClauses splits on top-level " AND ", honoring quotes, parens and
// range brackets.
func splitClauses(query string) []string {
	var clauses []string
	var depth int
	var inQuote, inRange bool
	start := 0

	for i := 0; i < len(query); i++ {
		switch query[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote && !inRange {
				depth++
			}
		case ')':
			if !inQuote && !inRange {
				depth--
			}
		case '[':
			if !inQuote {
				inRange = true
			}
		case ']':
			if !inQuote {
				inRange = false
			}
		}

		if depth == 0 && !inQuote && !inRange && strings.HasPrefix(query[i:], " AND ") {
			clauses = append(clauses, query[start:i])
			i += len(" AND ") - 1
			start = i + 1
		}
	}

	if rest := strings.TrimSpace(query[start:]); rest != "" {
		clauses = append(clauses, rest)
	}
	return clauses
}

func parseClause(clause string) (matcher, error) {
	clause = strings.TrimSpace(clause)

	if strings.HasPrefix(clause, "(") && strings.HasSuffix(clause, ")") {
		return parseOrGroup(clause[1 : len(clause)-1])
	}

	if field, rest, ok := splitFieldValue(clause); ok {
		if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
			return parseRange(field, rest[1:len(rest)-1])
		}
		value, err := unquote(rest)
		if err != nil {
			return nil, err
		}
		return fieldMatcher(field, value), nil
	}

	// bare keyword text
	return keywordMatcher(clause), nil
}

func parseOrGroup(group string) (matcher, error) {
	var terms []matcher
	for _, part := range strings.Split(group, " OR ") {
		field, rest, ok := splitFieldValue(strings.TrimSpace(part))
		if !ok {
			return nil, goerr.New("malformed OR group term",
				goerr.T(errs.TagValidation), goerr.V("term", part))
		}
		value, err := unquote(rest)
		if err != nil {
			return nil, err
		}
		terms = append(terms, fieldMatcher(field, value))
	}

	return func(a *alert.Alert) bool {
		for _, term := range terms {
			if term(a) {
				return true
			}
		}
		return false
	}, nil
}

func parseRange(field, bounds string) (matcher, error) {
	parts := strings.SplitN(bounds, " TO ", 2)
	if len(parts) != 2 {
		return nil, goerr.New("malformed range clause",
			goerr.T(errs.TagValidation), goerr.V("bounds", bounds))
	}

	var from, to *time.Time
	if parts[0] != "*" {
		t, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid range lower bound", goerr.T(errs.TagValidation))
		}
		from = &t
	}
	if parts[1] != "*" {
		t, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid range upper bound", goerr.T(errs.TagValidation))
		}
		to = &t
	}

	if field != "date" {
		return nil, goerr.New("range clause on non-date field",
			goerr.T(errs.TagValidation), goerr.V("field", field))
	}

	return func(a *alert.Alert) bool {
		if from != nil && a.CreatedAt.Before(*from) {
			return false
		}
		if to != nil && a.CreatedAt.After(*to) {
			return false
		}
		return true
	}, nil
}

// splitFieldValue splits `field:"value"` or `field:[...]` at the first
// colon preceding a quote or bracket. Bare text has no such colon and
// is treated as keyword.
func splitFieldValue(s string) (field, rest string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	switch s[i+1] {
	case '"', '[':
		return s[:i], s[i+1:], true
	}
	return "", "", false
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", goerr.New("malformed quoted value",
			goerr.T(errs.TagValidation), goerr.V("value", s))
	}
	return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`), nil
}

func fieldMatcher(field, value string) matcher {
	switch field {
	case "status":
		return func(a *alert.Alert) bool { return string(a.Status) == value }
	case "tags":
		return func(a *alert.Alert) bool {
			for _, tag := range a.Tags {
				if tag == value {
					return true
				}
			}
			return false
		}
	case "source":
		return func(a *alert.Alert) bool { return a.Source == value }
	case "type":
		return func(a *alert.Alert) bool { return a.Type == value }
	case "severity":
		code, err := strconv.Atoi(value)
		if err != nil {
			return func(*alert.Alert) bool { return false }
		}
		return func(a *alert.Alert) bool { return int(a.Severity) == code }
	case "title":
		return func(a *alert.Alert) bool {
			return strings.Contains(strings.ToLower(a.Title), strings.ToLower(value))
		}
	case "sourceRef":
		return func(a *alert.Alert) bool { return a.SourceRef == value }
	default:
		return func(*alert.Alert) bool { return false }
	}
}

// keywordMatcher is a case-insensitive substring match over the
// free-text attributes of an alert.
func keywordMatcher(text string) matcher {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(a *alert.Alert) bool {
		haystacks := []string{a.Title, a.SourceRef, a.Source, a.Type}
		haystacks = append(haystacks, a.Tags...)
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				return true
			}
		}
		return false
	}
}
