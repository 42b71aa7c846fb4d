package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2401.12345v2</id>
    <title>
  Example Paper</title>
    <summary>  We study
  something   interesting.  </summary>
    <published>2024-01-22T18:00:00Z</published>
    <author><name>A. Researcher</name></author>
    <author><name>  </name></author>
    <author><name>B. Colleague</name></author>
    <arxiv:primary_category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="stat.ML" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

// withAPIBase points the package at a test server for the duration of a test.
func withAPIBase(t *testing.T, url string) {
	t.Helper()
	old := apiBase
	apiBase = url
	t.Cleanup(func() { apiBase = old })
}

func TestFetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_list"); got != "2401.12345" {
			t.Errorf("id_list = %q, want %q", got, "2401.12345")
		}
		w.Write([]byte(feedFixture))
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	md, err := NewClient().FetchMetadata(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}

	if md.Title != "Example Paper" {
		t.Errorf("Title = %q", md.Title)
	}
	if len(md.Authors) != 2 || md.Authors[0] != "A. Researcher" || md.Authors[1] != "B. Colleague" {
		t.Errorf("Authors = %v", md.Authors)
	}
	if md.Abstract != "We study something interesting." {
		t.Errorf("Abstract = %q", md.Abstract)
	}
	if len(md.Categories) != 1 || md.Categories[0] != "cs.LG" {
		t.Errorf("Categories = %v", md.Categories)
	}
	want := time.Date(2024, 1, 22, 18, 0, 0, 0, time.UTC)
	if !md.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", md.Published, want)
	}
}

func TestFetchMetadataCategoryFallback(t *testing.T) {
	// No primary_category element: the first Atom-scheme category is used.
	fixture := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>T</title>
    <category term="quant-ph" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	md, err := NewClient().FetchMetadata(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if len(md.Categories) != 1 || md.Categories[0] != "quant-ph" {
		t.Errorf("Categories = %v, want [quant-ph]", md.Categories)
	}
}

func TestFetchMetadataMissingFields(t *testing.T) {
	// A sparse entry yields empty fields and a current-time published
	// date, not an error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><entry></entry></feed>`))
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	before := time.Now()
	md, err := NewClient().FetchMetadata(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if md.Title != "" || md.Abstract != "" || len(md.Authors) != 0 || len(md.Categories) != 0 {
		t.Errorf("expected empty fields, got %+v", md)
	}
	if md.Published.Before(before) {
		t.Errorf("Published = %v, want fallback to current time", md.Published)
	}
}

func TestFetchMetadataEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	_, err := NewClient().FetchMetadata(context.Background(), "2401.99999")
	if !errors.Is(err, ErrNoEntries) {
		t.Fatalf("err = %v, want ErrNoEntries", err)
	}
}

func TestFetchMetadataUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "toast", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	if _, err := NewClient().FetchMetadata(context.Background(), "2401.12345"); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestFetchAbstract(t *testing.T) {
	page := `<html><body>
<blockquote class="abstract">Abstract:  A  short
 abstract. </blockquote>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	old := absBase
	absBase = srv.URL + "/"
	t.Cleanup(func() { absBase = old })

	got, err := NewClient().FetchAbstract(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("FetchAbstract: %v", err)
	}
	if got != "A short abstract." {
		t.Errorf("abstract = %q", got)
	}
}
