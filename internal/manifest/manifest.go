// Package manifest encodes the list of discovered templates and hands the
// two build outputs (the generated list resource and the set of resources to
// preserve through native compilation) to a Sink.
package manifest

import (
	"bytes"
	"strings"
)

// ListFile is the well-known resource path of the generated template list.
// Runtime path resolvers read it to enumerate templates without scanning.
const ListFile = "META-INF/freemarker-templates.list"

// Encode joins ids with "\n" and appends exactly one trailing "\n". An empty
// list encodes as a single "\n".
func Encode(ids []string) []byte {
	var buf bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(id)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Decode splits manifest bytes back into template identifiers. Blank lines
// and carriage returns are ignored.
func Decode(data []byte) []string {
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	return ids
}

// ResourcePaths returns ids followed by ListFile.
func ResourcePaths(ids []string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, ListFile)
}
