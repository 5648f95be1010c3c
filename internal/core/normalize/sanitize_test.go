package normalize

import "testing"

func TestSanitize(t *testing.T) {
	clean := "plain text\twith tab\nand newline"
	if got := Sanitize(clean); got != clean {
		t.Fatalf("clean input changed: %q", got)
	}
	in := "a\x00b\x7fc\u0085d\re"
	if got := Sanitize(in); got != "abcd\re" {
		t.Fatalf("Sanitize(%q) = %q", in, got)
	}

	if got := Sanitize("caf\xc3\xa9 \xff#BM"); got != "caf\u00e9 #BM" {
		t.Fatalf("invalid byte kept: %q", got)
	}
	if got := Sanitize("\u00e9\x01"); got != "\u00e9" {
		t.Fatalf("trailing control kept: %q", got)
	}
}
