package util

import "testing"

func TestFingerprintStable(t *testing.T) {
	text := "Jane Doe\nSenior Engineer"
	got := Fingerprint(text)
	if got != Fingerprint(text) {
		t.Fatalf("expected stable fingerprint, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("fingerprint contains non-hex character: %c", ch)
		}
	}
}

func TestFingerprintNormalizesLineEndings(t *testing.T) {
	unix := "Jane Doe\nSenior Engineer\n"
	windows := "Jane Doe\r\nSenior Engineer\r\n"
	if Fingerprint(unix) != Fingerprint(windows) {
		t.Fatalf("expected CRLF and LF content to share a fingerprint")
	}
	padded := "  \nJane Doe\nSenior Engineer\n\n"
	if Fingerprint(unix) != Fingerprint(padded) {
		t.Fatalf("expected surrounding whitespace to be ignored")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	if Fingerprint("Jane Doe") == Fingerprint("John Doe") {
		t.Fatalf("expected different content to produce different fingerprints")
	}
}
