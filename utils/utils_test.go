package utils

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"walkboard/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, claims, err := GenerateSessionToken("secret", "u1", "Anna")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if claims.SessionID == "" {
		t.Error("session id not set")
	}

	parsed, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if parsed.VolunteerID != "u1" || parsed.Name != "Anna" || parsed.SessionID != claims.SessionID {
		t.Errorf("claims = %+v", parsed)
	}
	if parsed.IsGuest() {
		t.Error("volunteer reported as guest")
	}

	if _, err := ParseSessionToken("other", token); err == nil {
		t.Error("token accepted with the wrong secret")
	}
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(models.Dog{Name: "Rex", Health: models.HealthOK, Complexity: models.ComplexityGreen}); err != nil {
		t.Errorf("valid dog rejected: %v", err)
	}

	err := ValidateStruct(models.Dog{Health: "Sick", Complexity: models.ComplexityGreen, Age: -1})
	if err == nil {
		t.Fatal("invalid dog accepted")
	}
	for _, want := range []string{"name is required", "health must be one of", "age must be 0 or more"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

const (
	testBotToken = "123456:TEST-token"
	// signed with testBotToken, auth_date 2024-05-10 10:00:00 UTC
	signedInitData = "auth_date=1715335200&query_id=AAH1&user=%7B%22id%22%3A111%2C%22username%22%3A%22anna%22%2C%22first_name%22%3A%22Anna%22%7D&hash=6eb0d2f36ff3301a6044a36585c66ce2065b1b66778b7c7dd58b22da2ee1851c"
)

func TestVerifyInitData(t *testing.T) {
	signedAt := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

	user, err := VerifyInitData(testBotToken, signedInitData, time.Hour, signedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("VerifyInitData: %v", err)
	}
	if user.ID != 111 || user.Username != "anna" {
		t.Errorf("user = %+v", user)
	}

	tampered := strings.Replace(signedInitData, "anna", "boris", 1)
	tests := []struct {
		name     string
		token    string
		initData string
		now      time.Time
		want     error
	}{
		{"other bot", "654321:other", signedInitData, signedAt, ErrInvalidInitData},
		{"tampered user", testBotToken, tampered, signedAt, ErrInvalidInitData},
		{"no hash", testBotToken, "auth_date=1715335200&user=%7B%22id%22%3A111%7D", signedAt, ErrInvalidInitData},
		{"stale", testBotToken, signedInitData, signedAt.Add(2 * time.Hour), ErrInitDataExpired},
	}
	for _, tt := range tests {
		if _, err := VerifyInitData(tt.token, tt.initData, time.Hour, tt.now); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestSignInitDataVerifies(t *testing.T) {
	now := time.Now()
	values := url.Values{
		"auth_date": {strconv.FormatInt(now.Unix(), 10)},
		"user":      {`{"id":42,"username":"bim"}`},
	}
	user, err := VerifyInitData(testBotToken, SignInitData(testBotToken, values), time.Hour, now)
	if err != nil || user.ID != 42 {
		t.Errorf("user = %+v, err = %v", user, err)
	}
}
