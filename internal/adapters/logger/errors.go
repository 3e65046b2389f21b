package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// errorEntry is one level of an error chain as shown to the user.
type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries flattens err into the messages of its chain.
// Joined errors contribute each branch in order. A zerr error without a
// message only carries metadata, which belongs to the error it wraps.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	pending := map[string]any{}

	add := func(message string, metadata map[string]any) {
		merged := maps.Clone(pending)
		maps.Copy(merged, metadata)
		clear(pending)
		entries = append(entries, errorEntry{message: message, metadata: merged})
	}

	var walk func(error)
	walk = func(current error) {
		for current != nil {
			switch e := current.(type) {
			case *zerr.Error:
				if e.Message() == "" {
					maps.Copy(pending, e.Metadata())
				} else {
					add(e.Message(), e.Metadata())
				}
				current = errors.Unwrap(current)
			case interface{ Unwrap() []error }:
				for _, branch := range e.Unwrap() {
					walk(branch)
				}
				return
			default:
				add(current.Error(), nil)
				return
			}
		}
	}
	walk(err)

	if len(pending) > 0 && len(entries) > 0 {
		maps.Copy(entries[len(entries)-1].metadata, pending)
	}

	return entries
}

// formatErrorEntries renders entries as a headline followed by its causes.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.message+formatMetadata(entry.metadata), "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}

	keys := slices.Sorted(maps.Keys(metadata))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		value := fmt.Sprint(metadata[k])
		if strings.ContainsAny(value, "\n\" ") {
			value = fmt.Sprintf("%q", value)
		}
		parts = append(parts, k+"="+value)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
