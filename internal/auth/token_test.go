package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Encode("session-1", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three-segment token, got %q", token)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("session id = %q, want session-1", claims.SessionID)
	}
	if claims.Actor() != "alice" {
		t.Errorf("actor = %q, want alice", claims.Actor())
	}
}

func TestTokenCodecRejectsTampering(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Encode("session-1", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := codec.Decode(tampered); err == nil {
		t.Error("tampered payload accepted")
	}

	other := NewTokenCodec("different-secret")
	if _, err := other.Decode(token); err == nil {
		t.Error("token accepted under different secret")
	}
}

func TestTokenCodecRejectsExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Encode("session-1", "alice", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := codec.Decode(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTokenCodecFailsClosedWithoutSecret(t *testing.T) {
	codec := NewTokenCodec("")
	if codec.Configured() {
		t.Fatal("empty secret reported configured")
	}

	if _, err := codec.Encode("session-1", "alice", time.Now().Add(time.Hour)); err != ErrNoSecret {
		t.Errorf("encode err = %v, want ErrNoSecret", err)
	}

	signed, _ := NewTokenCodec("some-secret").Encode("session-1", "alice", time.Now().Add(time.Hour))
	if _, err := codec.Decode(signed); err != ErrNoSecret {
		t.Errorf("decode err = %v, want ErrNoSecret", err)
	}
}
