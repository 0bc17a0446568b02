package api

import (
	"fmt"
	"strings"
)

// DefaultNamespace is where tables live unless the caller says
// otherwise. It's elided when printing.
const DefaultNamespace = "default"

// SystemNamespace holds tables owned by the cluster itself, most
// importantly the meta table. They're hidden from listings unless
// explicitly requested.
const SystemNamespace = "sys"

// TableName is the unique identity of a table: a namespace plus a
// qualifier. Immutable; compare with ==.
type TableName struct {
	Namespace string
	Qualifier string
}

// MetaTableName identifies the metadata table, which records where
// every other table's regions live. Destructive operations against it
// are always rejected.
var MetaTableName = TableName{Namespace: SystemNamespace, Qualifier: "meta"}

// NewTableName parses a string like "foo" or "ns:foo" into a
// TableName. The empty namespace means DefaultNamespace.
func NewTableName(s string) (TableName, error) {
	ns := DefaultNamespace
	q := s

	if i := strings.IndexByte(s, ':'); i >= 0 {
		ns = s[:i]
		q = s[i+1:]
		if ns == "" {
			return TableName{}, fmt.Errorf("%w: empty namespace in table name: %q", ErrInvalidArgument, s)
		}
	}

	if q == "" {
		return TableName{}, fmt.Errorf("%w: empty table qualifier: %q", ErrInvalidArgument, s)
	}

	// Commas delimit the parts of a region name, so they can't appear
	// in table names.
	if strings.ContainsAny(q, ",:") || strings.ContainsRune(ns, ',') {
		return TableName{}, fmt.Errorf("%w: illegal character in table name: %q", ErrInvalidArgument, s)
	}

	return TableName{Namespace: ns, Qualifier: q}, nil
}

// String returns "qualifier" for the default namespace, and
// "namespace:qualifier" for everything else.
func (tn TableName) String() string {
	if tn.Namespace == DefaultNamespace || tn.Namespace == "" {
		return tn.Qualifier
	}
	return tn.Namespace + ":" + tn.Qualifier
}

func (tn TableName) IsSystem() bool {
	return tn.Namespace == SystemNamespace
}

func (tn TableName) IsMeta() bool {
	return tn == MetaTableName
}

func (tn TableName) Less(other TableName) bool {
	if tn.Namespace != other.Namespace {
		return tn.Namespace < other.Namespace
	}
	return tn.Qualifier < other.Qualifier
}
