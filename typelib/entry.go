package typelib

import (
	"strconv"
	"strings"
)

// AddressID identifies a record by the address it was observed at in the
// inspected process. It is a cache key, never a pointer to follow.
type AddressID uint64

func (a AddressID) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}

// Entry is a resolved type descriptor. Entries are immutable once built.
type Entry struct {
	// Element is set for sequences only.
	Element    *Entry
	SourceName string
	HostName   string
	Kind       Kind
}

// Equal reports whether e and o describe the same type.
func (e *Entry) Equal(o *Entry) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Kind == o.Kind &&
		e.SourceName == o.SourceName &&
		e.HostName == o.HostName &&
		e.Element.Equal(o.Element)
}

func (e *Entry) String() string {
	if e == nil {
		return "<unresolved>"
	}
	return e.SourceName + " (" + e.HostName + ")"
}

var sentinelPairs = map[byte]byte{'[': ']', '<': '>', '(': ')', '{': '}', '"': '"', '\'': '\''}

// HostName converts a dotted UNO name into a C++ scoped name, dropping the
// sentinel bracket pair that encloses it.
func HostName(source string) string {
	if len(source) >= 2 {
		if closing, ok := sentinelPairs[source[0]]; ok && source[len(source)-1] == closing {
			source = source[1 : len(source)-1]
		}
	}
	return strings.ReplaceAll(source, ".", "::")
}

// MemberHostName converts "Interface::Member" into the pointer-to-member
// spelling "Interface::*Member".
func MemberHostName(source string) string {
	iface, member, _ := strings.Cut(source, "::")
	return HostName(iface) + "::*" + member
}
