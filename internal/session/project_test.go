package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectProjectEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := DetectProject(dir)

	if ctx.HasMakefile || ctx.HasDockerfile || ctx.HasCompose || ctx.HasGit || ctx.HasPython {
		t.Fatalf("empty directory detected features: %+v", ctx)
	}
	if ctx.Name != filepath.Base(dir) {
		t.Errorf("name = %q, want %q", ctx.Name, filepath.Base(dir))
	}
}

func TestDetectProjectMakeTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Makefile", `CC = gcc
.PHONY: all clean

all: main.o
	$(CC) -o app main.o

build: all

test:
	./run_tests.sh

clean:
	rm -f app *.o
`)

	ctx := DetectProject(dir)
	if !ctx.HasMakefile {
		t.Fatal("Makefile not detected")
	}
	want := []string{"all", "build", "test", "clean"}
	if diff := cmp.Diff(want, ctx.MakeTargets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectProjectComposeServices(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docker-compose.yml", `version: "3"
services:
  web:
    image: nginx
    ports:
      - "80:80"
  db:
    image: postgres
`)

	ctx := DetectProject(dir)
	if !ctx.HasCompose {
		t.Fatal("compose file not detected")
	}
	want := []string{"web", "db"}
	if diff := cmp.Diff(want, ctx.ComposeServices); diff != "" {
		t.Errorf("services mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectProjectGitBranch(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, ".git"), "HEAD", "ref: refs/heads/feature/login\n")

	ctx := DetectProject(dir)
	if !ctx.HasGit {
		t.Fatal("git not detected")
	}
	if ctx.GitBranch != "feature/login" {
		t.Errorf("branch = %q, want feature/login", ctx.GitBranch)
	}
}

func TestDetectProjectDetachedHead(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, ".git"), "HEAD", "a1b2c3d4e5f6\n")

	ctx := DetectProject(dir)
	if !ctx.HasGit {
		t.Fatal("git not detected")
	}
	if ctx.GitBranch != "" {
		t.Errorf("branch = %q, want empty for detached HEAD", ctx.GitBranch)
	}
}

func TestDetectProjectPython(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "pytest\n")
	if err := os.MkdirAll(filepath.Join(dir, ".venv", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, ".venv", "bin"), "python", "")

	ctx := DetectProject(dir)
	if !ctx.HasPython {
		t.Fatal("python project not detected")
	}
	if want := filepath.Join(dir, ".venv"); ctx.PythonVenv != want {
		t.Errorf("venv = %q, want %q", ctx.PythonVenv, want)
	}
}
