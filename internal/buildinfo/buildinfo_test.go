package buildinfo

import "testing"

func TestShort(t *testing.T) {
	v, c := Version, Commit
	t.Cleanup(func() { Version, Commit = v, c })

	Version, Commit = "v1.2.0", "abc"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short()=%q", got)
	}
	Version = "dev"
	if got := Short(); got != "abc" {
		t.Fatalf("Short()=%q", got)
	}
	Commit = "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short()=%q", got)
	}
}
