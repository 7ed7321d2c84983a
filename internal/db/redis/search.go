package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// dialect enables ismissing() and pure negative queries.
const dialect = "2"

// Find runs a filtered FT.SEARCH and returns one page of documents.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}

	args := []string{q.IndexName, buildQuery(q.Filters)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	if q.SortBy != "" {
		order := "ASC"
		if q.SortDesc {
			order = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, order)
	}

	limit := q.Limit
	if limit == 0 {
		limit = db.DefaultBatchSize
	}
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(limit),
		"DIALECT", dialect,
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// Count returns the number of matching documents via FT.SEARCH with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, index string, filters filter.Expression) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(index, buildQuery(filters), "LIMIT", "0", "0", "DIALECT", dialect).
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// Distinct returns the distinct values of an indexed field via FT.AGGREGATE GROUPBY.
func (s *Store) Distinct(ctx context.Context, index, field string, filters filter.Expression) ([]string, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required")
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(
		index, buildQuery(filters),
		"GROUPBY", "1", "@"+field,
		"LIMIT", "0", strconv.Itoa(s.distinctLimit),
		"DIALECT", dialect,
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateValues(raw, field), nil
}

// CountDistinct returns the number of distinct values of field over the
// matching documents. The count is computed server-side, so it is not bound
// by the distinct limit.
func (s *Store) CountDistinct(ctx context.Context, index, field string, filters filter.Expression) (int, error) {
	if field == "" {
		return 0, fmt.Errorf("field is required")
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(
		index, buildQuery(filters),
		"GROUPBY", "0",
		"REDUCE", "COUNT_DISTINCT", "1", "@"+field, "AS", distinctCountAlias,
		"DIALECT", dialect,
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpAggregate, Err: err}
	}

	values := parseAggregateValues(raw, distinctCountAlias)
	if len(values) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, fmt.Errorf("parse distinct count: %w", err)
	}
	return n, nil
}

const distinctCountAlias = "n"

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseAggregateValues reads [count, [field, value], [field, value], ...].
func parseAggregateValues(raw []rueidis.RedisMessage, field string) []string {
	if len(raw) <= 1 {
		return []string{}
	}
	out := make([]string, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		if v, ok := parseFieldPairs(pairs)[field]; ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// buildQuery translates a filter into an FT query string, "*" when empty.
func buildQuery(expr filter.Expression) string {
	if q := buildFilter(expr); q != "" {
		return q
	}
	return "*"
}

// buildFilter translates filter.Expression into an FT.SEARCH query string.
// Must conditions are intersected, should conditions form one union, and
// must-not conditions are negated.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildMust(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	for _, cond := range expr.MustNot() {
		parts = append(parts, buildMustNot(cond))
	}

	return strings.Join(parts, " ")
}

func buildMust(cond filter.Condition) string {
	switch cond.Kind() {
	case filter.KindAllTags, filter.KindAllNumbers:
		return strings.Join(conjuncts(cond), " ")
	case filter.KindExists:
		return "-" + missing(cond.Key())
	default:
		return buildCondition(cond)
	}
}

func buildMustNot(cond filter.Condition) string {
	if cond.Kind() == filter.KindExists {
		return missing(cond.Key())
	}
	return "-" + buildCondition(cond)
}

// buildCondition renders a condition as a single query atom.
func buildCondition(cond filter.Condition) string {
	switch cond.Kind() {
	case filter.KindTag:
		return buildTagFilter(cond.Key(), cond.Match())
	case filter.KindAnyTag:
		return buildTagFilter(cond.Key(), cond.Values()...)
	case filter.KindNumber:
		return buildNumberFilter(cond.Key(), cond.Numbers()[0])
	case filter.KindAnyNumber:
		nums := cond.Numbers()
		if len(nums) == 1 {
			return buildNumberFilter(cond.Key(), nums[0])
		}
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = buildNumberFilter(cond.Key(), n)
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case filter.KindAllTags, filter.KindAllNumbers:
		parts := conjuncts(cond)
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " ") + ")"
	case filter.KindRange:
		return buildNumericFilter(cond.Key(), *cond.Range())
	case filter.KindExists:
		return "-" + missing(cond.Key())
	case filter.KindText:
		return buildTextFilter(cond.Fields(), cond.Match())
	}
	return ""
}

func conjuncts(cond filter.Condition) []string {
	if cond.Kind() == filter.KindAllTags {
		parts := make([]string, len(cond.Values()))
		for i, v := range cond.Values() {
			parts[i] = buildTagFilter(cond.Key(), v)
		}
		return parts
	}
	parts := make([]string, len(cond.Numbers()))
	for i, n := range cond.Numbers() {
		parts[i] = buildNumberFilter(cond.Key(), n)
	}
	return parts
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

func buildNumberFilter(key string, n float64) string {
	v := formatNumber(n)
	return fmt.Sprintf("@%s:[%s %s]", key, v, v)
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = "(" + formatNumber(*r.GT())
	} else if r.GTE() != nil {
		minBound = formatNumber(*r.GTE())
	}

	if r.LT() != nil {
		maxBound = "(" + formatNumber(*r.LT())
	} else if r.LTE() != nil {
		maxBound = formatNumber(*r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// buildTextFilter matches a quoted phrase exactly, otherwise every term.
func buildTextFilter(fields []string, text string) string {
	target := "@" + strings.Join(fields, "|")
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		inner := strings.TrimSpace(text[1 : len(text)-1])
		return fmt.Sprintf(`%s:"%s"`, target, escapeQuery(inner))
	}
	return fmt.Sprintf("%s:(%s)", target, escapeQuery(text))
}

func missing(key string) string {
	return fmt.Sprintf("ismissing(@%s)", key)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
