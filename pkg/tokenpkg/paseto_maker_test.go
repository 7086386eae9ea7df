package tokenpkg

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-petr/pet-bank-client/pkg/randompkg"
)

func TestPasetoMakerRoundTrip(t *testing.T) {
	t.Parallel()

	maker, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	other, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	testCases := []struct {
		name     string
		duration time.Duration
		verifier Maker
		wantErr  error
	}{
		{name: "OK", duration: time.Minute, verifier: maker},
		{name: "Expired", duration: -time.Minute, verifier: maker, wantErr: ErrExpiredToken},
		{name: "OtherKey", duration: time.Minute, verifier: other, wantErr: ErrInvalidToken},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			username := randompkg.PhoneNumber()

			token, created, err := maker.CreateToken(username, tc.duration)
			if err != nil {
				t.Fatalf("maker.CreateToken(%v, %v) returned error: %v", username, tc.duration, err)
			}

			got, err := tc.verifier.VerifyToken(token)
			if err != tc.wantErr {
				t.Fatalf("VerifyToken returned error %v, want %v", err, tc.wantErr)
			}

			if tc.wantErr != nil {
				return
			}

			delta := cmpopts.EquateApproxTime(time.Second)

			if diff := cmp.Diff(created, got, delta); diff != "" {
				t.Errorf("VerifyToken returned unexpected diff (-created +verified):\n%s", diff)
			}
		})
	}
}

func TestPasetoKeySize(t *testing.T) {
	t.Parallel()

	if _, err := NewPasetoMaker(randompkg.String(31)); err == nil {
		t.Error("NewPasetoMaker with a 31 byte key returned nil error")
	}
}

func TestNewMaker(t *testing.T) {
	t.Parallel()

	key := randompkg.String(32)

	testCases := []struct {
		kind    string
		want    any
		wantErr bool
	}{
		{kind: "jwt", want: &JWTMaker{}},
		{kind: "", want: &JWTMaker{}},
		{kind: "paseto", want: &PasetoMaker{}},
		{kind: "macaroon", wantErr: true},
	}

	for i := range testCases {
		tc := testCases[i]

		got, err := New(tc.kind, key)
		if tc.wantErr {
			if err == nil {
				t.Errorf("New(%q, key) returned nil error, want error", tc.kind)
			}

			continue
		}

		if err != nil {
			t.Fatalf("New(%q, key) returned error: %v", tc.kind, err)
		}

		if fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tc.want) {
			t.Errorf("New(%q, key) = %T, want %T", tc.kind, got, tc.want)
		}
	}
}
