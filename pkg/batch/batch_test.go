package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"tslower/pkg/driver"
)

const greeter = `class Greeter {
    constructor(public name: string) {}
    greet() { return "Hello, " + this.name }
}
console.log(new Greeter("a").greet())
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDiscoverFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b.ts":                      {Data: []byte("")},
		"a.ts":                      {Data: []byte("")},
		"types.d.ts":                {Data: []byte("")},
		"notes.md":                  {Data: []byte("")},
		"lib/c.ts":                  {Data: []byte("")},
		"lib/c.js":                  {Data: []byte("")},
		".cache/d.ts":               {Data: []byte("")},
		"node_modules/pkg/index.ts": {Data: []byte("")},
	}
	got, err := DiscoverFS(fsys, ".")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.ts", "b.ts", "lib/c.ts"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discovered files mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/one.ts":   "",
		"src/two.ts":   "",
		"src/skip.txt": "",
		"single.ts":    "",
	})
	single := filepath.Join(dir, "single.ts")
	got, err := Discover([]string{single, filepath.Join(dir, "src"), single})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		single,
		filepath.Join(dir, "src", "one.ts"),
		filepath.Join(dir, "src", "two.ts"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discovered files mismatch (-want +got):\n%s", diff)
	}

	if _, err := Discover([]string{filepath.Join(dir, "absent")}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestLowerFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.ts":   greeter,
		"broken.ts": "let = 1",
		"other.ts":  "let x: number = 1\nconsole.log(x)\n",
	})
	paths := []string{
		filepath.Join(dir, "good.ts"),
		filepath.Join(dir, "broken.ts"),
		filepath.Join(dir, "other.ts"),
		filepath.Join(dir, "missing.ts"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	results, stats, err := LowerFiles(ctx, paths, nil, Options{Workers: 2, Write: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] || r.Index != i {
			t.Errorf("result %d is for %s (index %d)", i, r.Path, r.Index)
		}
	}

	wantFailed := []bool{false, true, false, true}
	for i, r := range results {
		if r.Failed() != wantFailed[i] {
			t.Errorf("%s: failed = %v, err = %v", r.Path, r.Failed(), r.Err)
		}
	}
	if diag, ok := results[1].Err.(*driver.DiagnosticsError); !ok || diag.Diagnostics[0].Kind() != "Syntax" {
		t.Errorf("broken.ts error = %v, want a syntax diagnostic", results[1].Err)
	}

	written, err := os.ReadFile(filepath.Join(dir, "good.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != results[0].JavaScript {
		t.Errorf("written file differs from result:\n%s", written)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.js")); !os.IsNotExist(err) {
		t.Errorf("broken.js should not be written, stat err = %v", err)
	}

	if want := int64(len(results[0].JavaScript) + len(results[2].JavaScript)); stats.BytesWritten != want {
		t.Errorf("bytes written = %d, want %d", stats.BytesWritten, want)
	}
	if stats.WorkerCount != 2 || stats.TotalJobs != 4 || stats.CompletedJobs != 2 || stats.FailedJobs != 2 || stats.ActiveJobs != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLowerFilesWithoutWrite(t *testing.T) {
	dir := writeFiles(t, map[string]string{"good.ts": greeter})
	results, _, err := LowerFiles(context.Background(), []string{filepath.Join(dir, "good.ts")}, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Failed() || results[0].JavaScript == "" {
		t.Fatalf("result = %+v", results[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "good.js")); !os.IsNotExist(err) {
		t.Errorf("good.js should not be written, stat err = %v", err)
	}
}

func TestPoolLifecycle(t *testing.T) {
	pool := NewPool(1, nil)
	if err := pool.Submit(&Job{Path: "x.ts"}); err == nil {
		t.Error("expected submit before start to fail")
	}

	ctx := context.Background()
	if err := pool.Start(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := pool.Start(ctx, 1); err == nil {
		t.Error("expected a second start to fail")
	}
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if err := pool.Shutdown(ctx); err == nil {
		t.Error("expected a second shutdown to fail")
	}
	if err := pool.Submit(&Job{Path: "x.ts"}); err == nil {
		t.Error("expected submit after shutdown to fail")
	}
	if _, open := <-pool.Results(); open {
		t.Error("results channel should be closed after shutdown")
	}
}
