package db

import (
	"errors"
	"fmt"
	"strings"
)

// IndexFieldType is the FT schema type of an indexed JSON path.
type IndexFieldType string

// Field types used by the collections.
const (
	IndexFieldNumeric IndexFieldType = "NUMERIC"
	IndexFieldTag     IndexFieldType = "TAG"
	IndexFieldText    IndexFieldType = "TEXT"
)

// IndexField maps a JSONPath to the name queries address it by.
type IndexField struct {
	Path  string
	Alias string
	Type  IndexFieldType

	Sortable     bool
	IndexMissing bool // allows ismissing(@alias)
}

// IndexDefinition is an FT index over the JSON documents under one key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	switch {
	case !isIdentifier(idx.Name):
		return fmt.Errorf("invalid index name %q", idx.Name)
	case idx.Prefix == "":
		return errors.New("index key prefix is required")
	case len(idx.Fields) == 0:
		return errors.New("at least one field is required")
	}

	aliases := make(map[string]struct{}, len(idx.Fields))
	for _, f := range idx.Fields {
		if !strings.HasPrefix(f.Path, "$") {
			return fmt.Errorf("field path %q is not a JSONPath", f.Path)
		}
		if !isIdentifier(f.Alias) {
			return fmt.Errorf("invalid alias %q for %s", f.Alias, f.Path)
		}
		switch f.Type {
		case IndexFieldNumeric, IndexFieldTag, IndexFieldText:
		default:
			return fmt.Errorf("unknown type %q for %s", f.Type, f.Alias)
		}
		if _, dup := aliases[f.Alias]; dup {
			return fmt.Errorf("duplicate alias %q", f.Alias)
		}
		aliases[f.Alias] = struct{}{}
	}
	return nil
}

// Args renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) Args() ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "JSON", "PREFIX", "1", idx.Prefix, "SCHEMA"}
	for _, f := range idx.Fields {
		args = append(args, f.Path, "AS", f.Alias, string(f.Type))
		// INDEXMISSING must precede SORTABLE.
		if f.IndexMissing {
			args = append(args, "INDEXMISSING")
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args, nil
}

// String renders the FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	args, err := idx.Args()
	if err != nil {
		return "FT.CREATE " + idx.Name + " (invalid: " + err.Error() + ")"
	}
	return "FT.CREATE " + strings.Join(args, " ")
}

// isIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
