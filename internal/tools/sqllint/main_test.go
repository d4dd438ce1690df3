package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRunAcceptsRepositoryQueries(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../sqlinline"}, &stderr); code != 0 {
		t.Fatalf("run exit = %d, output:\n%s", code, stderr.String())
	}
}

func TestRunReportsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "q.go", "package q\n\nconst QBad = `select 1;`\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("run exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "missing or invalid") || !strings.Contains(stderr.String(), "QBad") {
		t.Fatalf("unexpected output: %s", stderr.String())
	}
}

func TestRunReportsDuplicateMarker(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\n" +
		"const QOne = `--sql 11111111-2222-3333-4444-555555555555\nselect 1;`\n" +
		"const QTwo = `--sql 11111111-2222-3333-4444-555555555555\nselect 2;`\n"
	writeSource(t, dir, "q.go", src)

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("run exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "already used by QOne") {
		t.Fatalf("unexpected output: %s", stderr.String())
	}
}

func TestRunIgnoresNonSQLStrings(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "q.go", "package q\n\nconst Greeting = \"hello there\"\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("run exit = %d, output: %s", code, stderr.String())
	}
}
