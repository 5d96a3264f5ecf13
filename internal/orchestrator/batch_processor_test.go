package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"linkedin-leads/internal/models"
	"linkedin-leads/internal/scraper"
	"linkedin-leads/internal/storage"
)

// nopSession satisfies scraper.Session without touching a browser.
type nopSession struct{}

func (nopSession) Navigate(string) error              { return nil }
func (nopSession) Exists(string) bool                 { return false }
func (nopSession) Text(string) (string, error)        { return "", nil }
func (nopSession) WaitFor(string, time.Duration) bool { return false }
func (nopSession) Eval(string, any) error             { return nil }
func (nopSession) Sleep(time.Duration)                {}

// mapValidator returns canned results per URL and records the URLs it saw.
type mapValidator struct {
	results map[string]*models.ProfileResult
	seen    []string
}

func (v *mapValidator) Validate(_ context.Context, _ scraper.Session, url string) *models.ProfileResult {
	v.seen = append(v.seen, url)
	return v.results[url]
}

// blockingValidator holds every call until release is closed.
type blockingValidator struct {
	started chan struct{}
	release chan struct{}
}

func (v *blockingValidator) Validate(context.Context, scraper.Session, string) *models.ProfileResult {
	select {
	case v.started <- struct{}{}:
	default:
	}
	<-v.release
	return nil
}

func stubFactory(context.Context) (scraper.Session, func(), error) {
	return nopSession{}, func() {}, nil
}

func testProcessor(t *testing.T, validator Validator) *BatchProcessor {
	t.Helper()
	cfg := models.Config{URLColumn: "linkedinUrl"}
	return NewBatchProcessor(cfg, validator, stubFactory, nil)
}

func leadTable(urls ...string) *storage.Table {
	table := &storage.Table{Headers: []string{"name", "linkedinUrl"}}
	for i, url := range urls {
		table.Rows = append(table.Rows, map[string]string{
			"name":        string(rune('a' + i)),
			"linkedinUrl": url,
		})
	}
	return table
}

func TestProcessWritesLeadRow(t *testing.T) {
	url := "https://www.linkedin.com/in/alpha"
	validator := &mapValidator{results: map[string]*models.ProfileResult{
		url: {
			HasPhoto:    true,
			JobTitle:    "CTO",
			Connections: "500+ connections",
			Companies: []models.CompanyMatch{
				{CompanyURL: "https://www.linkedin.com/company/acme", About: "Cloud software."},
				{CompanyURL: "https://www.linkedin.com/company/other", About: "Also software."},
			},
		},
	}}
	bp := testProcessor(t, validator)
	resultPath := filepath.Join(t.TempDir(), "out.csv")

	if err := bp.Process(context.Background(), "", leadTable(url), resultPath); err != nil {
		t.Fatalf("Process: %v", err)
	}

	out, err := storage.ReadTable(resultPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	wantHeaders := []string{
		"name", "linkedinUrl",
		"lead_status", "profile_job_title", "profile_connections",
		"company_url", "company_about", "product_category",
	}
	if len(out.Headers) != len(wantHeaders) {
		t.Fatalf("headers = %v, want %v", out.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if out.Headers[i] != h {
			t.Fatalf("headers = %v, want %v", out.Headers, wantHeaders)
		}
	}
	if len(out.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(out.Rows))
	}
	row := out.Rows[0]
	if row["lead_status"] != "valid" {
		t.Errorf("lead_status = %q, want valid", row["lead_status"])
	}
	if row["profile_job_title"] != "CTO" || row["profile_connections"] != "500+ connections" {
		t.Errorf("unexpected profile fields: %v", row)
	}
	// First matching company wins.
	if row["company_url"] != "https://www.linkedin.com/company/acme" {
		t.Errorf("company_url = %q", row["company_url"])
	}
	if row["name"] != "a" {
		t.Errorf("input column not carried over: %v", row)
	}
}

func TestProcessMarksLeadWithoutPhotoInvalid(t *testing.T) {
	url := "https://www.linkedin.com/in/beta"
	validator := &mapValidator{results: map[string]*models.ProfileResult{
		url: {
			JobTitle:  "Engineer",
			Companies: []models.CompanyMatch{{CompanyURL: "https://www.linkedin.com/company/acme"}},
		},
	}}
	bp := testProcessor(t, validator)
	resultPath := filepath.Join(t.TempDir(), "out.csv")

	if err := bp.Process(context.Background(), "", leadTable(url), resultPath); err != nil {
		t.Fatalf("Process: %v", err)
	}
	out, err := storage.ReadTable(resultPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if out.Rows[0]["lead_status"] != "invalid" {
		t.Errorf("lead_status = %q, want invalid", out.Rows[0]["lead_status"])
	}
}

func TestProcessHeadersOnlyWhenNothingMatches(t *testing.T) {
	validator := &mapValidator{}
	bp := testProcessor(t, validator)
	resultPath := filepath.Join(t.TempDir(), "out.csv")
	table := leadTable("https://www.linkedin.com/in/alpha", "https://www.linkedin.com/in/beta")

	if err := bp.Process(context.Background(), "", table, resultPath); err != nil {
		t.Fatalf("Process: %v", err)
	}
	out, err := storage.ReadTable(resultPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(out.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(out.Rows))
	}
	// An empty result keeps the input headers, no derived columns.
	if len(out.Headers) != 2 || out.Headers[0] != "name" || out.Headers[1] != "linkedinUrl" {
		t.Errorf("headers = %v, want the input headers only", out.Headers)
	}
}

func TestProcessSkipsRowsWithoutURL(t *testing.T) {
	validator := &mapValidator{}
	bp := testProcessor(t, validator)
	resultPath := filepath.Join(t.TempDir(), "out.csv")
	table := leadTable("", "   ", "not-a-url", "https://www.linkedin.com/in/alpha")

	if err := bp.Process(context.Background(), "", table, resultPath); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(validator.seen) != 1 || validator.seen[0] != "https://www.linkedin.com/in/alpha" {
		t.Errorf("validated %v, want the single http URL", validator.seen)
	}
}

func TestProcessSortsLeadsByJobTitle(t *testing.T) {
	results := map[string]*models.ProfileResult{
		"https://www.linkedin.com/in/a": {HasPhoto: true, JobTitle: "Zoologist", Companies: []models.CompanyMatch{{CompanyURL: "https://c/1"}}},
		"https://www.linkedin.com/in/b": {HasPhoto: true, JobTitle: "Analyst", Companies: []models.CompanyMatch{{CompanyURL: "https://c/2"}}},
		"https://www.linkedin.com/in/c": {HasPhoto: true, JobTitle: "Manager", Companies: []models.CompanyMatch{{CompanyURL: "https://c/3"}}},
		"https://www.linkedin.com/in/d": {HasPhoto: true, JobTitle: "Analyst", Companies: []models.CompanyMatch{{CompanyURL: "https://c/4"}}},
	}
	bp := testProcessor(t, &mapValidator{results: results})
	resultPath := filepath.Join(t.TempDir(), "out.csv")
	table := leadTable(
		"https://www.linkedin.com/in/a",
		"https://www.linkedin.com/in/b",
		"https://www.linkedin.com/in/c",
		"https://www.linkedin.com/in/d",
	)

	if err := bp.Process(context.Background(), "", table, resultPath); err != nil {
		t.Fatalf("Process: %v", err)
	}
	out, err := storage.ReadTable(resultPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(out.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(out.Rows))
	}
	var titles []string
	for _, row := range out.Rows {
		titles = append(titles, row["profile_job_title"])
	}
	want := []string{"Analyst", "Analyst", "Manager", "Zoologist"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
	// The sort is stable: equal titles keep their input order, so the
	// earlier profile's company comes first.
	if out.Rows[0]["company_url"] != "https://c/2" || out.Rows[1]["company_url"] != "https://c/4" {
		t.Errorf("equal titles reordered: %v then %v",
			out.Rows[0]["company_url"], out.Rows[1]["company_url"])
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	url := "https://www.linkedin.com/in/alpha"
	validator := &mapValidator{results: map[string]*models.ProfileResult{
		url: {HasPhoto: true, JobTitle: "CTO", Companies: []models.CompanyMatch{{CompanyURL: "https://c/1"}}},
	}}
	bp := testProcessor(t, validator)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	if err := bp.Process(context.Background(), "", leadTable(url), first); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := bp.Process(context.Background(), "", leadTable(url), second); err != nil {
		t.Fatalf("Process: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two runs over the same input produced different files")
	}
}

func TestProcessSessionFactoryFailure(t *testing.T) {
	factoryErr := errors.New("chrome did not start")
	factory := func(context.Context) (scraper.Session, func(), error) {
		return nil, nil, factoryErr
	}
	bp := NewBatchProcessor(models.Config{URLColumn: "linkedinUrl"}, &mapValidator{}, factory, nil)

	err := bp.Process(context.Background(), "", leadTable("https://www.linkedin.com/in/a"), filepath.Join(t.TempDir(), "out.csv"))
	if err == nil || !errors.Is(err, factoryErr) {
		t.Fatalf("err = %v, want wrapped factory error", err)
	}
}

func TestEnqueueRejectsSecondBatch(t *testing.T) {
	validator := &blockingValidator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	bp := testProcessor(t, validator)
	dir := t.TempDir()
	table := leadTable("https://www.linkedin.com/in/a")

	if err := bp.Enqueue(table, "in.csv", "out.csv", filepath.Join(dir, "out.csv")); err != nil {
		t.Fatalf("first Enqueue: %v", err)
	}
	<-validator.started

	err := bp.Enqueue(table, "in2.csv", "out2.csv", filepath.Join(dir, "out2.csv"))
	if !errors.Is(err, ErrBatchInProgress) {
		t.Fatalf("err = %v, want ErrBatchInProgress", err)
	}

	close(validator.release)

	// The slot frees once the first batch finishes; the empty table makes the
	// follow-up batch complete without touching the validator.
	empty := &storage.Table{Headers: []string{"linkedinUrl"}}
	thirdPath := filepath.Join(dir, "out3.csv")
	deadline := time.Now().Add(2 * time.Second)
	for {
		err = bp.Enqueue(empty, "in3.csv", "out3.csv", thirdPath)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("slot never freed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	for {
		if _, statErr := os.Stat(thirdPath); statErr == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("follow-up batch never wrote its result file")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
