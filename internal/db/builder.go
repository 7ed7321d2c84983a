package db

import "github.com/kailas-cloud/bioquery/internal/domain"

// IndexBuilder assembles the search schema of a collection.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts the schema of col, named and prefixed after it.
func NewIndex(col domain.Collection) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{
		Name:   col.IndexName(),
		Prefix: col.KeyPattern(),
	}}
}

func (b *IndexBuilder) field(path, alias string, t IndexFieldType) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Path: path, Alias: alias, Type: t})
	return b
}

// Numeric indexes path as NUMERIC. A multi-valued path matches a range when
// any element does.
func (b *IndexBuilder) Numeric(path, alias string) *IndexBuilder {
	return b.field(path, alias, IndexFieldNumeric)
}

// Tag indexes path as a case-insensitive TAG.
func (b *IndexBuilder) Tag(path, alias string) *IndexBuilder {
	return b.field(path, alias, IndexFieldTag)
}

// Text indexes path for full-text search.
func (b *IndexBuilder) Text(path, alias string) *IndexBuilder {
	return b.field(path, alias, IndexFieldText)
}

// Sortable marks the last field SORTABLE.
func (b *IndexBuilder) Sortable() *IndexBuilder {
	if last := b.last(); last != nil {
		last.Sortable = true
	}
	return b
}

// Missing marks the last field INDEXMISSING so its absence can be queried.
func (b *IndexBuilder) Missing() *IndexBuilder {
	if last := b.last(); last != nil {
		last.IndexMissing = true
	}
	return b
}

func (b *IndexBuilder) last() *IndexField {
	if len(b.def.Fields) == 0 {
		return nil
	}
	return &b.def.Fields[len(b.def.Fields)-1]
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}

// MustBuild is Build for static schemas; it panics on an invalid definition.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
