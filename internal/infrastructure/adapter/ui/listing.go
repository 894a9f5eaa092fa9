package ui

import (
	"file-explorer/internal/domain/entity"
	"strconv"
	"strings"
	"text/tabwriter"
)

// listingTimeFormat is the timestamp layout of the modified column.
const listingTimeFormat = "2006-01-02 15:04"

// FormatListing renders entries as aligned columns of type and permissions, size,
// modification time and name. name decorates the final column; it must not contain tabs.
func FormatListing(entries []entity.DirectoryEntry, name func(entity.DirectoryEntry) string) string {
	if name == nil {
		name = func(e entity.DirectoryEntry) string { return e.Name }
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		size := "-"
		if e.Kind == entity.KindFile {
			size = strconv.FormatInt(e.Size, 10)
		}
		modified := ""
		if !e.Modified.IsZero() {
			modified = e.Modified.Format(listingTimeFormat)
		}
		// tabwriter only fails when the underlying writer does
		_, _ = w.Write([]byte(kindMarker(e.Kind) + e.Permissions.String() + "\t" +
			size + "\t" + modified + "\t" + name(e) + "\n"))
	}
	_ = w.Flush()
	return b.String()
}

func kindMarker(kind entity.EntryKind) string {
	switch kind {
	case entity.KindDirectory:
		return "d"
	case entity.KindSymlink:
		return "l"
	case entity.KindFile:
		return "-"
	default:
		return "?"
	}
}
