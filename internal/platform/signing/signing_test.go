package signing

import (
	"net/url"
	"testing"
	"time"
)

func newSigner() *Signer { return New("test-signing-secret-32-bytes-ok!") }

const testVideoKey = "episodes/ep-1/source.mp4"

func TestSign_Verify_HappyPath(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)

	tok := s.Sign(testVideoKey, "user-1", exp)
	if !s.Verify(testVideoKey, "user-1", tok.Exp, tok.Sig) {
		t.Fatal("expected Verify to return true for valid signature")
	}
}

func TestVerify_Expired(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(-time.Hour)

	tok := s.Sign(testVideoKey, "user-1", exp)
	if s.Verify(testVideoKey, "user-1", tok.Exp, tok.Sig) {
		t.Fatal("expected Verify to return false for expired signature")
	}
}

func TestVerify_TamperedKey(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)
	tok := s.Sign("episodes/ep-1/source.mp4", "user-1", exp)

	if s.Verify("episodes/ep-2/source.mp4", "user-1", tok.Exp, tok.Sig) {
		t.Fatal("expected Verify to fail for tampered key")
	}
}

func TestVerify_TamperedUserID(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)
	tok := s.Sign(testVideoKey, "user-1", exp)

	if s.Verify(testVideoKey, "user-2", tok.Exp, tok.Sig) {
		t.Fatal("expected Verify to fail for different user")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	s1 := newSigner()
	s2 := New("different-secret-32-bytes-padded!!")
	exp := time.Now().Add(time.Hour)

	tok := s1.Sign(testVideoKey, "user-1", exp)
	if s2.Verify(testVideoKey, "user-1", tok.Exp, tok.Sig) {
		t.Fatal("expected Verify to fail with different secret")
	}
}

func TestPlaybackURL_ExtractToken_Roundtrip(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)
	tok := s.Sign(testVideoKey, "user-42", exp)

	playback, err := PlaybackURL("https://api.example.com/api/v1/stream", tok)
	if err != nil {
		t.Fatalf("PlaybackURL: %v", err)
	}

	u, _ := url.Parse(playback)
	extracted, err := ExtractToken(u.Query())
	if err != nil {
		t.Fatalf("ExtractToken: %v", err)
	}

	if extracted.Key != testVideoKey {
		t.Fatalf("expected key %q, got %q", testVideoKey, extracted.Key)
	}
	if extracted.UID != "user-42" {
		t.Fatalf("expected uid 'user-42', got %q", extracted.UID)
	}
	if extracted.Exp != tok.Exp {
		t.Fatalf("expected exp %d, got %d", tok.Exp, extracted.Exp)
	}
	if !s.Verify(extracted.Key, extracted.UID, extracted.Exp, extracted.Sig) {
		t.Fatal("extracted signature should verify successfully")
	}
}

func TestExtractToken_MissingParams(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"missing key", url.Values{"uid": {"u"}, "exp": {"1"}, "sig": {"s"}}},
		{"missing uid", url.Values{"key": {"k"}, "exp": {"1"}, "sig": {"s"}}},
		{"missing exp", url.Values{"key": {"k"}, "uid": {"u"}, "sig": {"s"}}},
		{"missing sig", url.Values{"key": {"k"}, "uid": {"u"}, "exp": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractToken(tt.values)
			if err == nil {
				t.Fatal("expected error for missing param")
			}
		})
	}
}

func TestExtractToken_BadExp(t *testing.T) {
	vals := url.Values{"key": {"k"}, "uid": {"u"}, "exp": {"soon"}, "sig": {"s"}}
	if _, err := ExtractToken(vals); err == nil {
		t.Fatal("expected error for non-numeric exp")
	}
}
