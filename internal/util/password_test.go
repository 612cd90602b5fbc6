package util

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("s3cret-password", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
}
