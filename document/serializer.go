package document

import (
	"strconv"

	"github.com/alsfmt/als/escape"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/internal/pool"
)

// Serialize renders doc into its wire text (§4.7-4.8), following the
// grammar documented on this package. A Ctx document serializes to its
// version line, the "!ctx\n" directive, and CtxPayload verbatim with no
// further processing — dictionaries, schema, and streams are unused.
//
// The document text accumulates in a pooled buffer (internal/pool) sized
// for the common case, so repeated Serialize calls in a hot compression
// loop don't each pay for a fresh growable allocation.
func Serialize(doc *Document) string {
	b := pool.GetDocumentBuffer()
	defer pool.PutDocumentBuffer(b)

	writeVersionLine(b, doc)

	if doc.Indicator == format.Ctx {
		b.WriteString("!ctx\n")
		b.WriteString(doc.CtxPayload)
		return b.String()
	}

	b.WriteString("!als\n")
	writeDictLines(b, doc)
	writeSchemaLine(b, doc)
	writeStreamsLine(b, doc)
	return b.String()
}

func writeVersionLine(b *pool.ByteBuffer, doc *Document) {
	b.WriteString("!v")
	b.WriteString(strconv.Itoa(doc.MajorVersion))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(doc.MinorVersion))
	b.WriteByte('\n')
}

func writeDictLines(b *pool.ByteBuffer, doc *Document) {
	for _, id := range doc.DictOrder {
		d, ok := doc.Dictionaries[id]
		if !ok {
			continue
		}
		b.WriteByte('$')
		b.WriteString(id)
		b.WriteByte(':')
		for i, entry := range d.Entries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape.Escape(entry))
		}
		b.WriteByte('\n')
	}
}

func writeSchemaLine(b *pool.ByteBuffer, doc *Document) {
	b.WriteByte('#')
	for i, spec := range doc.Schema {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(spec.Name)
		b.WriteByte(':')
		b.WriteString(spec.Type.String())
	}
	b.WriteByte('\n')
}

func writeStreamsLine(b *pool.ByteBuffer, doc *Document) {
	for i, stream := range doc.Streams {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, op := range stream.Ops {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(op.Token())
		}
	}
	b.WriteByte('\n')
}
