package filesystem

import (
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/custom.yaml"); got != filepath.Join(home, "custom.yaml") {
		t.Errorf("ExpandHome(~/custom.yaml) = %q", got)
	}
	if got := ExpandHome("/etc/verba.yaml"); got != "/etc/verba.yaml" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandHome("rel/./config.yaml"); got != filepath.Join("rel", "config.yaml") {
		t.Errorf("relative path = %q", got)
	}
}
