package bibtex

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/hepbib/extract"
	"github.com/lehigh-university-libraries/hepbib/format"
	"github.com/lehigh-university-libraries/hepbib/helpers"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

func TestMarshalFieldOrder(t *testing.T) {
	entry := &hub.Entry{
		RecordId:      "1480079",
		EprintId:      "1606.05129",
		Title:         "Measurement",
		Author:        "{Aad}, Georges and {Abbott}, Brad~Kenneth",
		Journal:       "Phys. Rev. D",
		Year:          "2016",
		Volume:        "94",
		Pages:         "052002",
		Doi:           "10.1103/PhysRevD.94.052002",
		ArchivePrefix: "arXiv",
		PrimaryClass:  "hep-ex",
		Url:           "https://inspirehep.net/record/1480079/",
		PdfLink:       "https://example.org/x.pdf",
	}

	got, err := Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `@article{1606.05129,
author = "{{Aad}, Georges and {Abbott}, Brad~Kenneth}",
title = "{Measurement}",
journal = "{Phys. Rev. D}",
year = "{2016}",
volume = "{94}",
pages = "{052002}",
doi = "{10.1103/PhysRevD.94.052002}",
eprint = "{1606.05129}",
archiveprefix = "{arXiv}",
primaryclass = "{hep-ex}",
url = "{https://inspirehep.net/record/1480079/}",
}
`
	if got != want {
		t.Errorf("Marshal mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "x.pdf") {
		t.Error("pdf link must not be written into the entry")
	}
}

func TestMarshalEscaping(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"quotes", `A "Special" Result`, `title = "{A 'Special' Result}",`},
		{"control characters", "Line\none\t\ttwo\r\n", `title = "{Line one two}",`},
		{"balanced braces kept", "The {LHC} run", `title = "{The {LHC} run}",`},
		{"unbalanced braces dropped", "Broken {title", `title = "{Broken title}",`},
		{"closing first", "a } b { c", `title = "{a b c}",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(&hub.Entry{EprintId: "k", Title: tt.title})
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if !strings.Contains(got, tt.want+"\n") {
				t.Errorf("got:\n%s\nwant line %s", got, tt.want)
			}
		})
	}
}

func TestMarshalKeepsNameBracesAroundMalformedAuthor(t *testing.T) {
	author := helpers.FormatAuthors([]string{"Smith, John", "{Bro}ken}, Al"}, true)
	got, err := Marshal(&hub.Entry{EprintId: "k", Author: author})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `author = "{{Smith}, John and {Broken}, Al}",` + "\n"
	if !strings.Contains(got, want) {
		t.Errorf("got:\n%s\nwant line %s", got, want)
	}
}

func TestMarshalOmitsEmptyFields(t *testing.T) {
	got, err := Marshal(&hub.Entry{EprintId: "CMS-PAS-HIG-16-027", Journal: "CERN Note", Title: "   "})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "@article{CMS-PAS-HIG-16-027,\njournal = \"{CERN Note}\",\neprint = \"{CMS-PAS-HIG-16-027}\",\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarshalKey(t *testing.T) {
	got, err := Marshal(&hub.Entry{EprintId: " hep-ph/01 01,{001}\" "})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.HasPrefix(got, "@article{hep-ph/0101001,\n") {
		t.Errorf("key not sanitized: %q", got)
	}

	for _, key := range []string{"", "  ", ",{}"} {
		_, err := Marshal(&hub.Entry{EprintId: key, Source: "cds"})
		if !errors.Is(err, hub.ErrMandatoryFieldMissing) {
			t.Errorf("Marshal(key %q) err = %v, want ErrMandatoryFieldMissing", key, err)
		}
	}
}

func TestSerializeMultiple(t *testing.T) {
	var buf bytes.Buffer
	entries := []hub.Entry{{EprintId: "a"}, {EprintId: "b"}}
	if err := (&Format{}).Serialize(&buf, entries, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	want := "@article{a,\neprint = \"{a}\",\n}\n\n@article{b,\neprint = \"{b}\",\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	err := (&Format{}).Serialize(&buf, []hub.Entry{{}}, format.NewSerializeOptions())
	if !errors.Is(err, hub.ErrMandatoryFieldMissing) {
		t.Errorf("err = %v", err)
	}
}

func TestRegistered(t *testing.T) {
	s, err := format.GetSerializer("BibTeX")
	if err != nil {
		t.Fatalf("GetSerializer failed: %v", err)
	}
	if s.Name() != "bibtex" {
		t.Errorf("Name = %q", s.Name())
	}
}

func TestRoundTripProducesValidBibtex(t *testing.T) {
	reg, err := profile.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	docs := map[string]string{
		"cds": `<collection><record>
<controlfield tag="001">2209282</controlfield>
<datafield tag="037" ind1=" " ind2=" "><subfield code="a">CMS-PAS-HIG-16-027</subfield></datafield>
<datafield tag="245" ind1=" " ind2=" "><subfield code="a">A "Special" {Result</subfield></datafield>
<datafield tag="520" ind1=" " ind2=" "><subfield code="a">Abstract with "quotes" and } brace</subfield></datafield>
<datafield tag="710" ind1=" " ind2=" "><subfield code="g">CMS "Collaboration"</subfield></datafield>
</record></collection>`,
		"inspire": `<collection><record>
<controlfield tag="001">1480079</controlfield>
<datafield tag="100" ind1=" " ind2=" "><subfield code="a">O"Neil, Sean</subfield></datafield>
<datafield tag="773" ind1=" " ind2=" "><subfield code="p">Phys. Rev. D</subfield></datafield>
</record></collection>`,
		"arxiv": `<feed xmlns="http://www.w3.org/2005/Atom"><entry>
<id>http://arxiv.org/abs/hep-ph/0101001v1</id>
<published>2001-01-01T00:00:00Z</published>
<title>Old "style"</title>
<author><name>Ann Lee</name></author>
</entry></feed>`,
	}

	for name, input := range docs {
		t.Run(name, func(t *testing.T) {
			prof, _ := reg.Get(name)
			entry, err := extract.BuildFromReader(strings.NewReader(input), prof)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			out, err := Marshal(&entry)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			checkValid(t, out)
		})
	}
}

// checkValid asserts one @article block, balanced braces and no quote
// characters inside field values.
func checkValid(t *testing.T, out string) {
	t.Helper()
	if strings.Count(out, "@article{") != 1 {
		t.Errorf("expected one @article block:\n%s", out)
	}
	if !helpers.BalancedBraces(out) {
		t.Errorf("unbalanced braces:\n%s", out)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[len(lines)-1] != "}" {
		t.Errorf("block not closed:\n%s", out)
	}
	for _, line := range lines[1 : len(lines)-1] {
		_, value, ok := strings.Cut(line, ` = "{`)
		if !ok || !strings.HasSuffix(value, `}",`) {
			t.Errorf("bad field line %q", line)
			continue
		}
		if strings.Contains(strings.TrimSuffix(value, `}",`), `"`) {
			t.Errorf("raw quote in %q", line)
		}
	}
}
