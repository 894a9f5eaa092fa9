package entity

import (
	"io/fs"
	"regexp"
	"strconv"
	"strings"
)

// Who selects one of the three permission triads.
type Who int

const (
	Owner Who = iota
	Group
	Other
)

// Bit is one of the read, write or execute flags within a triad.
type Bit int

const (
	Read    Bit = 4
	Write   Bit = 2
	Execute Bit = 1
)

// octalSpec accepts one to three octal digits with an optional leading zero.
var octalSpec = regexp.MustCompile(`^0?[0-7]{1,3}$`)

// PermissionSet holds the nine owner/group/other read/write/execute flags.
// Only the low nine bits are meaningful.
type PermissionSet uint16

// PermissionsFromMode extracts the nine permission bits of a file mode.
func PermissionsFromMode(mode fs.FileMode) PermissionSet {
	return PermissionSet(mode.Perm())
}

// ParseOctal parses a numeric mode such as "755" or "0644".
// Symbolic specifications like "u+x" are not accepted.
func ParseOctal(spec string) (PermissionSet, error) {
	if !octalSpec.MatchString(spec) {
		return 0, NewFSError("parse mode", spec, KindUnsupportedFormat,
			ErrUnsupportedFormat)
	}
	v, err := strconv.ParseUint(spec, 8, 16)
	if err != nil {
		return 0, NewFSError("parse mode", spec, KindUnsupportedFormat, err)
	}
	return PermissionSet(v), nil
}

// ParseSymbolic parses a nine character rwx string such as "rwxr-xr--".
func ParseSymbolic(s string) (PermissionSet, error) {
	if len(s) != 9 {
		return 0, NewFSError("parse mode", s, KindUnsupportedFormat, ErrUnsupportedFormat)
	}
	var p PermissionSet
	for i := 0; i < 9; i++ {
		want := "rwx"[i%3]
		switch s[i] {
		case want:
			p |= 1 << (8 - i)
		case '-':
		default:
			return 0, NewFSError("parse mode", s, KindUnsupportedFormat, ErrUnsupportedFormat)
		}
	}
	return p, nil
}

// Has reports whether the given bit is set for the given triad.
func (p PermissionSet) Has(who Who, bit Bit) bool {
	shift := uint(6 - 3*int(who))
	return uint16(p)>>shift&uint16(bit) != 0
}

// Mode converts the set to a file mode carrying only permission bits.
func (p PermissionSet) Mode() fs.FileMode {
	return fs.FileMode(p) & fs.ModePerm
}

// Octal renders the set as three octal digits, e.g. "755".
func (p PermissionSet) Octal() string {
	s := strconv.FormatUint(uint64(p&0o777), 8)
	return strings.Repeat("0", 3-len(s)) + s
}

// String renders the set as nine rwx characters with '-' for unset bits.
func (p PermissionSet) String() string {
	var b strings.Builder
	b.Grow(9)
	for i := 0; i < 9; i++ {
		if p&(1<<(8-i)) != 0 {
			b.WriteByte("rwx"[i%3])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
