package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/hepbib/catalog"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

func mustProfile(t *testing.T, name string) *profile.Profile {
	t.Helper()
	r, err := profile.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	p, ok := r.Get(name)
	if !ok {
		t.Fatalf("profile %s not found", name)
	}
	return p
}

func mustDoc(t *testing.T, input string) *catalog.Document {
	t.Helper()
	doc, err := catalog.ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	return doc
}

func marc(fields string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<collection xmlns="http://www.loc.gov/MARC21/slim"><record>` + fields + `</record></collection>`
}

const cdsNote = `
<controlfield tag="001">2209282</controlfield>
<datafield tag="037" ind1=" " ind2=" "><subfield code="a">CMS-PAS-HIG-16-027</subfield></datafield>
<datafield tag="245" ind1=" " ind2=" "><subfield code="a">Search for a "light" charged Higgs boson</subfield></datafield>
<datafield tag="269" ind1=" " ind2=" "><subfield code="c">2016-08-02</subfield></datafield>
<datafield tag="520" ind1=" " ind2=" "><subfield code="a">A search is &lt;i&gt;presented&lt;/i&gt;.</subfield></datafield>
<datafield tag="700" ind1=" " ind2=" "><subfield code="a">Smith, John</subfield></datafield>
<datafield tag="710" ind1=" " ind2=" "><subfield code="g">CMS Collaboration</subfield></datafield>
<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://cds.cern.ch/record/2209282/files/plot.pdf</subfield></datafield>
<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://cds.cern.ch/record/2209282/files/HIG-16-027-pas.pdf</subfield><subfield code="y">Fulltext</subfield></datafield>
`

func TestBuildCDSNote(t *testing.T) {
	entry, err := Build(mustDoc(t, marc(cdsNote)), mustProfile(t, "cds"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	checks := map[string]string{
		"RecordId": "2209282",
		"EprintId": "CMS-PAS-HIG-16-027",
		"Title":    "Search for a 'light' charged Higgs boson",
		"Abstract": "A search is presented.",
		"Author":   "CMS Collaboration",
		"Journal":  "CERN Note",
		"Year":     "2016",
		"Month":    "aug",
		"Url":      "https://cds.cern.ch/record/2209282/",
		"PdfLink":  "http://cds.cern.ch/record/2209282/files/HIG-16-027-pas.pdf",
		"Doi":      "",
		"Source":   "cds",
	}
	got := map[string]string{
		"RecordId": entry.RecordId,
		"EprintId": entry.EprintId,
		"Title":    entry.Title,
		"Abstract": entry.Abstract,
		"Author":   entry.Author,
		"Journal":  entry.Journal,
		"Year":     entry.Year,
		"Month":    entry.Month,
		"Url":      entry.Url,
		"PdfLink":  entry.PdfLink,
		"Doi":      entry.Doi,
		"Source":   entry.Source,
	}
	for field, want := range checks {
		if got[field] != want {
			t.Errorf("%s = %q, want %q", field, got[field], want)
		}
	}
}

func TestBuildCDSOnlyReportNumber(t *testing.T) {
	doc := mustDoc(t, marc(`
<controlfield tag="001">1</controlfield>
<datafield tag="037" ind1=" " ind2=" "><subfield code="a">CMS-PAS-HIG-16-027</subfield></datafield>`))
	entry, err := Build(doc, mustProfile(t, "cds"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if entry.Journal != "CERN Note" {
		t.Errorf("Journal = %q, want CERN Note", entry.Journal)
	}
	if entry.EprintId != "CMS-PAS-HIG-16-027" {
		t.Errorf("EprintId = %q", entry.EprintId)
	}
	if entry.Title != "" || entry.Author != "" || entry.PdfLink != "" {
		t.Errorf("optional fields not empty: %+v", entry)
	}
}

func TestBuildCDSFallsBackToPersonalAuthors(t *testing.T) {
	doc := mustDoc(t, marc(`
<controlfield tag="001">5</controlfield>
<datafield tag="100" ind1=" " ind2=" "><subfield code="a">Smith, John Robert</subfield></datafield>
<datafield tag="700" ind1=" " ind2=" "><subfield code="a">Doe, Jane</subfield></datafield>`))
	entry, err := Build(doc, mustProfile(t, "cds"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if want := "{Smith}, John~Robert and {Doe}, Jane"; entry.Author != want {
		t.Errorf("Author = %q, want %q", entry.Author, want)
	}
}

func TestBuildRecordIdMatchesControlField(t *testing.T) {
	for _, recid := range []string{"1", "2209282", "99999999"} {
		doc := mustDoc(t, marc(`<controlfield tag="001">`+recid+`</controlfield>`))
		entry, err := Build(doc, mustProfile(t, "cds"))
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", recid, err)
		}
		if entry.RecordId != recid {
			t.Errorf("RecordId = %q, want %q", entry.RecordId, recid)
		}
		// No report number: the citation key falls back to the record id.
		if entry.EprintId != recid {
			t.Errorf("EprintId = %q, want %q", entry.EprintId, recid)
		}
	}
}

func TestBuildCatalogMismatch(t *testing.T) {
	inputs := map[string]string{
		"no 001":      marc(`<datafield tag="245" ind1=" " ind2=" "><subfield code="a">T</subfield></datafield>`),
		"empty 001":   marc(`<controlfield tag="001">  </controlfield>`),
		"atom as marc": `<feed xmlns="http://www.w3.org/2005/Atom"><entry><id>http://arxiv.org/abs/1501.00001</id></entry></feed>`,
	}
	for _, name := range []string{"cds", "inspire"} {
		prof := mustProfile(t, name)
		for label, input := range inputs {
			t.Run(name+"/"+label, func(t *testing.T) {
				_, err := Build(mustDoc(t, input), prof)
				if !errors.Is(err, hub.ErrCatalogMismatch) {
					t.Fatalf("err = %v, want ErrCatalogMismatch", err)
				}
				var fe *hub.FieldError
				if !errors.As(err, &fe) || fe.Field != hub.FieldRecordId || fe.Profile != name {
					t.Errorf("FieldError = %+v", fe)
				}
			})
		}
	}
}

func TestBuildInspireJournal(t *testing.T) {
	doc := mustDoc(t, marc(`
<controlfield tag="001">1480079</controlfield>
<datafield tag="024" ind1="7" ind2=" "><subfield code="2">DOI</subfield><subfield code="a">10.1103/PhysRevD.94.052002</subfield></datafield>
<datafield tag="245" ind1=" " ind2=" "><subfield code="a">Measurement of something</subfield></datafield>
<datafield tag="100" ind1=" " ind2=" "><subfield code="a">Aad, Georges</subfield></datafield>
<datafield tag="700" ind1=" " ind2=" "><subfield code="a">Abbott, Brad Kenneth</subfield></datafield>
<datafield tag="710" ind1=" " ind2=" "><subfield code="g">ATLAS</subfield></datafield>
<datafield tag="773" ind1=" " ind2=" "><subfield code="p">Phys. Rev. D</subfield><subfield code="v">94</subfield><subfield code="n">5</subfield><subfield code="c">052002</subfield><subfield code="y">2016</subfield></datafield>`))

	entry, err := Build(doc, mustProfile(t, "inspire"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if entry.Journal != "Phys. Rev. D" {
		t.Errorf("Journal = %q", entry.Journal)
	}
	if entry.Volume != "94" || entry.Number != "5" || entry.Pages != "052002" || entry.Year != "2016" {
		t.Errorf("volume/number/pages/year = %q/%q/%q/%q", entry.Volume, entry.Number, entry.Pages, entry.Year)
	}
	if entry.Doi != "10.1103/PhysRevD.94.052002" {
		t.Errorf("Doi = %q", entry.Doi)
	}
	if want := "{Aad}, Georges and {Abbott}, Brad~Kenneth"; entry.Author != want {
		t.Errorf("Author = %q, want %q", entry.Author, want)
	}
	if entry.Collaboration != "ATLAS" {
		t.Errorf("Collaboration = %q", entry.Collaboration)
	}
	if entry.EprintId != "1480079" {
		t.Errorf("EprintId = %q, want record id fallback", entry.EprintId)
	}
	if entry.Url != "https://inspirehep.net/record/1480079/" {
		t.Errorf("Url = %q", entry.Url)
	}
}

func TestBuildInspireEprint(t *testing.T) {
	doc := mustDoc(t, marc(`
<controlfield tag="001">1480079</controlfield>
<datafield tag="037" ind1=" " ind2=" "><subfield code="a">CERN-EP-2016-123</subfield></datafield>
<datafield tag="037" ind1=" " ind2=" "><subfield code="9">arXiv</subfield><subfield code="a">arXiv:1606.05129</subfield><subfield code="c">hep-ex</subfield></datafield>`))

	entry, err := Build(doc, mustProfile(t, "inspire"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if entry.EprintId != "1606.05129" {
		t.Errorf("EprintId = %q", entry.EprintId)
	}
	if entry.ArchivePrefix != "arXiv" || entry.PrimaryClass != "hep-ex" {
		t.Errorf("ArchivePrefix/PrimaryClass = %q/%q", entry.ArchivePrefix, entry.PrimaryClass)
	}
	if entry.Journal != "" {
		t.Errorf("Journal = %q, want empty", entry.Journal)
	}
}

func TestBuildArxivAtom(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: id_list=1501.00001</title>
  <entry>
    <id>http://arxiv.org/abs/1501.00001v2</id>
    <published>2014-12-31T20:00:01Z</published>
    <title>A New
      Result</title>
    <summary>  We present
   a result. </summary>
    <author><name>John Robert Smith</name></author>
    <author><name>Jane Doe</name></author>
    <arxiv:comment>10 pages, 3 figures</arxiv:comment>
    <link href="http://arxiv.org/abs/1501.00001v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1501.00001v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="hep-ph" scheme="http://arxiv.org/schemas/atom"/>
    <category term="hep-ph" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

	entry, err := Build(mustDoc(t, input), mustProfile(t, "arxiv"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"RecordId", entry.RecordId, "1501.00001"},
		{"EprintId", entry.EprintId, "1501.00001"},
		{"Title", entry.Title, "A New Result"},
		{"Abstract", entry.Abstract, "We present a result."},
		{"Author", entry.Author, "{Smith}, John~Robert and {Doe}, Jane"},
		{"Journal", entry.Journal, "ArXiv e-prints"},
		{"Year", entry.Year, "2014"},
		{"Month", entry.Month, "dec"},
		{"ArchivePrefix", entry.ArchivePrefix, "arXiv"},
		{"PrimaryClass", entry.PrimaryClass, "hep-ph"},
		{"Note", entry.Note, "10 pages, 3 figures"},
		{"Url", entry.Url, "https://arxiv.org/abs/1501.00001"},
		{"PdfLink", entry.PdfLink, "http://arxiv.org/pdf/1501.00001v2"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
}

func TestBuildArxivErrorFeed(t *testing.T) {
	input := `<feed xmlns="http://www.w3.org/2005/Atom"><entry>
<id>http://arxiv.org/api/errors#incorrect_id_format_for_foo</id>
<title>Error</title></entry></feed>`
	_, err := Build(mustDoc(t, input), mustProfile(t, "arxiv"))
	if !errors.Is(err, hub.ErrCatalogMismatch) {
		t.Fatalf("err = %v, want ErrCatalogMismatch", err)
	}
}

func TestBuildFromReaderMalformed(t *testing.T) {
	_, err := BuildFromReader(strings.NewReader("<collection><record>"), mustProfile(t, "cds"))
	if !errors.Is(err, hub.ErrMalformedDocument) {
		t.Fatalf("err = %v, want ErrMalformedDocument", err)
	}
	if !strings.HasPrefix(err.Error(), "cds: ") {
		t.Errorf("error does not name the profile: %v", err)
	}
}

func TestBuildNilInputs(t *testing.T) {
	if _, err := Build(nil, mustProfile(t, "cds")); !errors.Is(err, hub.ErrMalformedDocument) {
		t.Errorf("nil doc err = %v", err)
	}
	if _, err := Build(mustDoc(t, marc("")), nil); !errors.Is(err, hub.ErrUnsupportedSource) {
		t.Errorf("nil profile err = %v", err)
	}
}

func TestPDFLinkHeuristic(t *testing.T) {
	prof := mustProfile(t, "cds")
	tests := []struct {
		name   string
		fields string
		want   string
	}{
		{
			name: "fulltext wins over earlier pdf",
			fields: `<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/other.pdf</subfield></datafield>
<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/x.pdf</subfield><subfield code="y">Fulltext</subfield></datafield>`,
			want: "http://a.org/x.pdf",
		},
		{
			name: "first pdf suffix",
			fields: `<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/page.html</subfield></datafield>
<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/A.PDF?version=1</subfield></datafield>
<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/b.pdf</subfield></datafield>`,
			want: "http://a.org/A.PDF?version=1",
		},
		{
			name:   "no pdf",
			fields: `<datafield tag="856" ind1="4" ind2=" "><subfield code="u">http://a.org/page.html</subfield></datafield>`,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, marc(`<controlfield tag="001">1</controlfield>`+tt.fields))
			if got := PDFLink(doc, &prof.PDF); got != tt.want {
				t.Errorf("PDFLink = %q, want %q", got, tt.want)
			}
		})
	}
}
