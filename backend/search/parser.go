// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search parses the query language used to filter stored run reports,
// e.g. `kind:visual status:failed date:>=2026-01-01 "index.html"`.
package search

import (
	"strings"
	"unicode"
)

// Operator is the comparison applied by a Filter.
type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpRange          Operator = ".." // date:2026-01..2026-02
)

// Checked longest first so ">=" is not read as ">".
var prefixOperators = []Operator{OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess}

// Filter is one key:value criterion.
type Filter struct {
	Key      string
	Value    string
	MaxValue string // OpRange only
	Operator Operator
}

// Query is a parsed query string.
type Query struct {
	Filters  []Filter
	FreeText []string
}

// Parse turns a query string into filters and free-text terms. Quoted values
// may contain spaces and colons; an unquoted value containing a colon is
// treated as free text. Times therefore need quotes:
// date:>="2026-03-14T09:05" or date:"2026-03-14T09:00".."2026-03-14T10:00".
func Parse(input string) Query {
	var q Query
	for _, token := range tokenize(input) {
		key, val, ok := strings.Cut(token, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if !ok || key == "" || val == "" || startsWithQuote(token) {
			q.FreeText = append(q.FreeText, removeQuotes(token))
			continue
		}
		if bare := strings.TrimLeft(val, "<>="); strings.Contains(bare, ":") && !startsWithQuote(bare) {
			q.FreeText = append(q.FreeText, token)
			continue
		}
		q.Filters = append(q.Filters, parseFilter(key, val))
	}
	return q
}

func parseFilter(key, val string) Filter {
	if lo, hi, ok := strings.Cut(val, ".."); ok && !isQuoted(val) {
		return Filter{Key: key, Value: removeQuotes(lo), MaxValue: removeQuotes(hi), Operator: OpRange}
	}
	for _, op := range prefixOperators {
		if rest, ok := strings.CutPrefix(val, string(op)); ok {
			return Filter{Key: key, Value: removeQuotes(rest), Operator: op}
		}
	}
	return Filter{Key: key, Value: removeQuotes(val), Operator: OpEqual}
}

// Match reports whether actual satisfies the filter. Equality is case
// insensitive. Ordered comparisons truncate actual to the bound's length so
// that date:<=2026-01 includes 2026-01-31.
func (f Filter) Match(actual string) bool {
	switch f.Operator {
	case OpEqual:
		return strings.EqualFold(actual, f.Value)
	case OpGreater:
		return truncate(actual, f.Value) > f.Value
	case OpGreaterOrEqual:
		return truncate(actual, f.Value) >= f.Value
	case OpLess:
		return truncate(actual, f.Value) < f.Value
	case OpLessOrEqual:
		return truncate(actual, f.Value) <= f.Value
	case OpRange:
		return (f.Value == "" || truncate(actual, f.Value) >= f.Value) &&
			(f.MaxValue == "" || truncate(actual, f.MaxValue) <= f.MaxValue)
	}
	return false
}

// Get returns the filters with the given key.
func (q Query) Get(key string) []Filter {
	var out []Filter
	for _, f := range q.Filters {
		if f.Key == key {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty is true when the query has no criteria at all.
func (q Query) IsEmpty() bool {
	return len(q.Filters) == 0 && len(q.FreeText) == 0
}

func truncate(actual, bound string) string {
	if len(actual) > len(bound) {
		return actual[:len(bound)]
	}
	return actual
}

// tokenize splits on whitespace outside of quotes. Quotes are kept.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	var quote rune

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func startsWithQuote(s string) bool {
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'")
}

// isQuoted is true for a single quoted string, "a" but not "a".."b".
func isQuoted(s string) bool {
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') || s[len(s)-1] != s[0] {
		return false
	}
	return !strings.ContainsRune(s[1:len(s)-1], rune(s[0]))
}

func removeQuotes(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
