package arxiv

import "regexp"

// Base URLs for arXiv endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	absBase = "https://arxiv.org/abs/"
	pdfBase = "https://arxiv.org/pdf/"
	apiBase = "https://export.arxiv.org/api/query"
)

// Accepted identifier shapes, tried in order; first match wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\.org/abs/([0-9]{4}\.[0-9]{4,5}v?[0-9]*)`),
	regexp.MustCompile(`(?i)arxiv\.org/pdf/([0-9]{4}\.[0-9]{4,5}v?[0-9]*)`),
	regexp.MustCompile(`([0-9]{4}\.[0-9]{4,5}v?[0-9]*)`),
}

var versionSuffix = regexp.MustCompile(`v[0-9]*$`)

// ExtractID parses a free-form input (an abs/pdf URL or a bare identifier)
// into a canonical arXiv id with any version suffix stripped. The second
// return value is false when the input matches none of the accepted shapes;
// callers should treat that as invalid user input, not a system fault.
func ExtractID(input string) (string, bool) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return versionSuffix.ReplaceAllString(m[1], ""), true
		}
	}
	return "", false
}

// Links holds the three canonical URLs derived from an arXiv id.
type Links struct {
	Abstract string
	PDF      string
	API      string
}

// URLs derives the abstract page, PDF, and metadata-query URLs for an id.
// Pure and deterministic: the same id always yields the same links.
func URLs(id string) Links {
	return Links{
		Abstract: absBase + id,
		PDF:      pdfBase + id + ".pdf",
		API:      apiBase + "?id_list=" + id,
	}
}
