package auth

import (
	"context"
	"testing"
	"time"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	j := New("secret")

	tok, err := j.Sign("op-42", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	uid, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if uid != "op-42" {
		t.Fatalf("uid = %q", uid)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, _ := New("secret-a").Sign("op-1", time.Minute)
	if _, err := New("secret-b").Verify(tok); err == nil {
		t.Fatal("token signed with another secret verified")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := New("secret")
	tok, _ := j.Sign("op-1", -time.Minute)
	if _, err := j.Verify(tok); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestSignRejectsEmptyUID(t *testing.T) {
	if _, err := New("secret").Sign("", time.Minute); err == nil {
		t.Fatal("empty uid signed")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if got := OperatorID(ctx); got != "anon" {
		t.Fatalf("default = %q, want anon", got)
	}
	ctx = WithOperator(ctx, "op-7")
	if got := OperatorID(ctx); got != "op-7" {
		t.Fatalf("got %q", got)
	}
}
