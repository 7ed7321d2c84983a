package filter

import (
	"fmt"
	"strings"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should/must_not boolean semantics.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Kind identifies the predicate a Condition applies.
type Kind int

// Condition kinds.
const (
	// KindTag is equality on a tag field.
	KindTag Kind = iota + 1
	// KindAnyTag matches when the field holds any of the values ($in).
	KindAnyTag
	// KindAllTags matches when the field holds every value ($all).
	KindAllTags
	// KindNumber is equality on a numeric field.
	KindNumber
	// KindAnyNumber matches when the field holds any of the numbers ($in).
	KindAnyNumber
	// KindAllNumbers matches when the field holds every number ($all).
	KindAllNumbers
	// KindRange bounds a numeric field.
	KindRange
	// KindExists matches when the field is present ($exists).
	KindExists
	// KindText is a phrase search over one or more text fields.
	KindText
)

// Condition is a single filter clause over one field.
type Condition struct {
	kind      Kind
	key       string
	values    []string
	numbers   []float64
	rangeExpr *Range
	fields    []string
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{kind: KindTag, key: key, values: []string{match}}, nil
}

// NewAnyOf creates a tag membership condition.
func NewAnyOf(key string, values ...string) (Condition, error) {
	return newTagSet(KindAnyTag, key, values)
}

// NewAllOf creates a tag superset condition.
func NewAllOf(key string, values ...string) (Condition, error) {
	return newTagSet(KindAllTags, key, values)
}

func newTagSet(kind Kind, key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for key %q", key)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty value for key %q", key)
		}
	}
	return Condition{kind: kind, key: key, values: values}, nil
}

// NewNumber creates a numeric equality condition.
func NewNumber(key string, n float64) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{kind: KindNumber, key: key, numbers: []float64{n}}, nil
}

// NewAnyNumber creates a numeric membership condition.
func NewAnyNumber(key string, numbers ...float64) (Condition, error) {
	return newNumberSet(KindAnyNumber, key, numbers)
}

// NewAllNumbers creates a numeric superset condition.
func NewAllNumbers(key string, numbers ...float64) (Condition, error) {
	return newNumberSet(KindAllNumbers, key, numbers)
}

func newNumberSet(kind Kind, key string, numbers []float64) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(numbers) == 0 {
		return Condition{}, fmt.Errorf("at least one number is required for key %q", key)
	}
	return Condition{kind: kind, key: key, numbers: numbers}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{kind: KindRange, key: key, rangeExpr: &r}, nil
}

// NewExists creates a field presence condition.
func NewExists(key string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{kind: KindExists, key: key}, nil
}

// NewText creates a phrase search over the given text fields.
// A phrase wrapped in double quotes is matched as a whole.
func NewText(phrase string, fields ...string) (Condition, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return Condition{}, fmt.Errorf("search text is required")
	}
	if len(fields) == 0 {
		return Condition{}, fmt.Errorf("at least one text field is required")
	}
	return Condition{kind: KindText, key: fields[0], values: []string{phrase}, fields: fields}, nil
}

// Kind returns the predicate kind.
func (c Condition) Kind() Kind { return c.kind }

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the first tag value.
func (c Condition) Match() string {
	if len(c.values) == 0 {
		return ""
	}
	return c.values[0]
}

// Values returns the tag values.
func (c Condition) Values() []string { return c.values }

// Numbers returns the numeric values.
func (c Condition) Numbers() []float64 { return c.numbers }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Fields returns the text fields searched by a text condition.
func (c Condition) Fields() []string { return c.fields }

// IsMatch reports whether this is a single tag match condition.
func (c Condition) IsMatch() bool { return c.kind == KindTag }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.kind == KindRange }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Builder accumulates conditions and keeps the first construction error.
type Builder struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
	err     error
}

// Must adds a must condition. Accepts the result of a constructor directly.
func (b *Builder) Must(c Condition, err error) *Builder {
	if b.keep(err) {
		b.must = append(b.must, c)
	}
	return b
}

// Should adds a should condition.
func (b *Builder) Should(c Condition, err error) *Builder {
	if b.keep(err) {
		b.should = append(b.should, c)
	}
	return b
}

// MustNot adds a must-not condition.
func (b *Builder) MustNot(c Condition, err error) *Builder {
	if b.keep(err) {
		b.mustNot = append(b.mustNot, c)
	}
	return b
}

func (b *Builder) keep(err error) bool {
	if b.err != nil {
		return false
	}
	if err != nil {
		b.err = err
		return false
	}
	return true
}

// Build returns the expression or the first error seen.
func (b *Builder) Build() (Expression, error) {
	if b.err != nil {
		return Expression{}, b.err
	}
	return NewExpression(b.must, b.should, b.mustNot)
}

// Ints converts integer ids for the numeric constructors.
func Ints(ids []int) []float64 {
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = float64(id)
	}
	return out
}
