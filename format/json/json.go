// Package json provides a JSON format plugin for bibliographic entries.
//
// Keys are the BibTeX keys plus recid, pdf and source. Values are the
// entry's field values as built, without BibTeX escaping.
package json

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/hepbib/format"
	"github.com/lehigh-university-libraries/hepbib/hub"
)

// Format implements the JSON format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "json"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON object per entry, including the PDF link"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// Serialize writes one JSON object for a single entry and an array otherwise.
func (f *Format) Serialize(w io.Writer, entries []hub.Entry, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	values := make([]*structpb.Value, 0, len(entries))
	for i := range entries {
		s, err := ToStruct(&entries[i])
		if err != nil {
			return fmt.Errorf("converting entry %d: %w", i, err)
		}
		values = append(values, structpb.NewStructValue(s))
	}

	var msg *structpb.Value
	if len(values) == 1 {
		msg = values[0]
	} else {
		msg = structpb.NewListValue(&structpb.ListValue{Values: values})
	}

	marshaler := protojson.MarshalOptions{Multiline: opts.Pretty}
	if opts.Pretty {
		marshaler.Indent = "  "
	}
	output, err := marshaler.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := w.Write(output); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// ToStruct converts an entry to a protobuf Struct. Empty fields are omitted.
func ToStruct(e *hub.Entry) (*structpb.Struct, error) {
	fields := map[string]string{
		"recid":         e.RecordId,
		"eprint":        e.EprintId,
		"author":        e.Author,
		"title":         e.Title,
		"journal":       e.Journal,
		"year":          e.Year,
		"month":         e.Month,
		"volume":        e.Volume,
		"number":        e.Number,
		"pages":         e.Pages,
		"doi":           e.Doi,
		"archiveprefix": e.ArchivePrefix,
		"primaryclass":  e.PrimaryClass,
		"collaboration": e.Collaboration,
		"url":           e.Url,
		"note":          e.Note,
		"abstract":      e.Abstract,
		"pdf":           e.PdfLink,
		"source":        e.Source,
	}

	m := make(map[string]any, len(fields))
	for k, v := range fields {
		if v != "" {
			m[k] = v
		}
	}
	return structpb.NewStruct(m)
}

func init() {
	format.Register(&Format{})
}
