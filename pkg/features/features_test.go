package features

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Court–Kay–Bauer Hall": "court-kay-bauer-hall",
		"Mews Hall":            "mews-hall",
		"  Toni Morrison  ":    "toni-morrison",
		"court-kay-bauer-hall": "court-kay-bauer-hall",
		"":                     "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.All()) == 0 {
		t.Fatal("embedded catalog is empty")
	}
	first := c.All()[0]
	got, ok := c.Lookup(first.Name)
	if !ok || got.URL != first.URL {
		t.Errorf("lookup by name failed for %q", first.Name)
	}
	if _, ok := c.Lookup(first.Slug); !ok {
		t.Errorf("lookup by slug failed for %q", first.Slug)
	}
}

func TestParseCatalog_RejectsDuplicates(t *testing.T) {
	raw := []byte("dorms:\n  - {name: Mews Hall, url: http://a}\n  - {name: mews hall, url: http://b}\n")
	if _, err := ParseCatalog(raw); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestParseFeatures_List(t *testing.T) {
	page := `<html><body>
		<h2>Overview</h2><ul><li>not this</li></ul>
		<div><h3> Community Features </h3></div>
		<div><ul>
			<li>Laundry</li>
			<li> Kitchen </li>
			<li>Laundry</li>
			<li></li>
		</ul></div>
	</body></html>`
	feats, err := ParseFeatures(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Laundry", "Kitchen"}
	if fmt.Sprint(feats) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", feats, want)
	}
}

func TestParseFeatures_Paragraph(t *testing.T) {
	page := `<h4>amenities</h4><p>Gym<br>Music room<br/>Gym</p>`
	feats, err := ParseFeatures(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Gym", "Music room"}
	if fmt.Sprint(feats) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", feats, want)
	}
}

func TestParseFeatures_NoHeading(t *testing.T) {
	feats, err := ParseFeatures(strings.NewReader(`<h2>Location</h2><ul><li>x</li></ul>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feats == nil || len(feats) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", feats)
	}
}

func TestScraper_Scrape(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<h2>Community amenities</h2><ul><li>Piano</li></ul>`)
	}))
	defer srv.Close()

	s := NewScraper(time.Second, "dormhop-test")
	feats, err := s.Scrape(context.Background(), srv.URL+"/hall")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(feats) != 1 || feats[0] != "Piano" {
		t.Errorf("unexpected features %v", feats)
	}
	if gotUA != "dormhop-test" {
		t.Errorf("user agent not sent, got %q", gotUA)
	}

	if _, err := s.Scrape(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error on 404")
	}
}

// ── cache ──

type countingFetcher struct {
	calls atomic.Int32
	delay time.Duration
	feats []string
	err   error
}

func (f *countingFetcher) Scrape(ctx context.Context, url string) ([]string, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	return f.feats, f.err
}

type mapStore struct {
	mu   sync.Mutex
	data map[string][]string
}

func (s *mapStore) GetFeatures(ctx context.Context, slug string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[slug]
	return v, ok, nil
}

func (s *mapStore) SetFeatures(ctx context.Context, slug string, feats []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[slug] = feats
	return nil
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte("dorms:\n  - {name: Mews Hall, url: http://example.test/mews}\n"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestCache_FillsOnceUnderConcurrency(t *testing.T) {
	fetcher := &countingFetcher{delay: 20 * time.Millisecond, feats: []string{"Laundry"}}
	cache := NewCache(testCatalog(t), fetcher, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feats, err := cache.Get(context.Background(), "Mews Hall")
			if err != nil || len(feats) != 1 {
				t.Errorf("get: %v %v", feats, err)
			}
		}()
	}
	wg.Wait()

	if _, err := cache.Get(context.Background(), "mews-hall"); err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if n := fetcher.calls.Load(); n != 1 {
		t.Errorf("expected 1 scrape, got %d", n)
	}
}

func TestCache_UnknownDorm(t *testing.T) {
	cache := NewCache(testCatalog(t), &countingFetcher{}, nil, zap.NewNop())
	if _, err := cache.Get(context.Background(), "Nowhere Hall"); !errors.Is(err, ErrUnknownDorm) {
		t.Errorf("expected ErrUnknownDorm, got %v", err)
	}
}

func TestCache_ErrorNotCached(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("boom")}
	cache := NewCache(testCatalog(t), fetcher, nil, zap.NewNop())
	if _, err := cache.Get(context.Background(), "Mews Hall"); err == nil {
		t.Fatal("expected error")
	}
	fetcher.err = nil
	fetcher.feats = []string{"Gym"}
	feats, err := cache.Get(context.Background(), "Mews Hall")
	if err != nil || len(feats) != 1 || feats[0] != "Gym" {
		t.Errorf("expected retry to succeed, got %v %v", feats, err)
	}
}

func TestCache_UsesStore(t *testing.T) {
	store := &mapStore{data: map[string][]string{"mews-hall": {"Lounge"}}}
	fetcher := &countingFetcher{feats: []string{"Laundry"}}
	cache := NewCache(testCatalog(t), fetcher, store, zap.NewNop())

	feats, err := cache.Get(context.Background(), "Mews Hall")
	if err != nil || len(feats) != 1 || feats[0] != "Lounge" {
		t.Fatalf("expected stored features, got %v %v", feats, err)
	}
	if fetcher.calls.Load() != 0 {
		t.Error("fetcher should not run on store hit")
	}
}

func TestCache_WritesThroughToStore(t *testing.T) {
	store := &mapStore{data: map[string][]string{}}
	cache := NewCache(testCatalog(t), &countingFetcher{feats: []string{"Laundry"}}, store, zap.NewNop())

	if _, err := cache.Get(context.Background(), "Mews Hall"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := store.data["mews-hall"]; len(got) != 1 || got[0] != "Laundry" {
		t.Errorf("expected write-through, got %v", got)
	}
}
