package db

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned for reads of absent keys and for FindOne without a hit.
var ErrKeyNotFound = errors.New("db: key not found")

// ErrIndexNotFound is returned by DropIndex for an unknown index.
var ErrIndexNotFound = errors.New("db: index not found")

// ErrIndexExists is returned by CreateIndex when the index is already defined.
var ErrIndexExists = errors.New("db: index already exists")

// Op names the store command that failed.
type Op string

// Commands issued by the store.
const (
	OpCreateIndex Op = "FT.CREATE"
	OpDropIndex   Op = "FT.DROPINDEX"
	OpIndexInfo   Op = "FT.INFO"
	OpSearch      Op = "FT.SEARCH"
	OpAggregate   Op = "FT.AGGREGATE"
	OpJSONGet     Op = "JSON.GET"
	OpGet         Op = "GET"
	OpSet         Op = "SET"
)

// Error is a failed store command. Key is set for single-key commands.
type Error struct {
	Op  Op
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FailedOp reports the command behind a store failure, if err carries one.
func FailedOp(err error) (Op, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Op, true
	}
	return "", false
}
