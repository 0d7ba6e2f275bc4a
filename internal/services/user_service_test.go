package services

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserServiceWithCost(db, bcrypt.MinCost)

		user, err := svc.Register(ctx, "A@X.com", "Abcdef12", "Ada", "Lovelace")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Email != "a@x.com" {
			t.Errorf("expected lower-cased email, got %s", user.Email)
		}
		if user.Password == "Abcdef12" {
			t.Error("password must be stored hashed")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abcdef12")) != nil {
			t.Error("stored hash does not match password")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserServiceWithCost(db, bcrypt.MinCost)

		_, err := svc.Register(ctx, "a@x.com", "Abcdef12", "Ada", "")
		testutil.AssertNoError(t, err)

		_, err = svc.Register(ctx, "A@x.COM", "Abcdef12", "Other", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("weak_passwords", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserServiceWithCost(db, bcrypt.MinCost)

		for _, pw := range []string{"short1A", "alllower12", "ALLUPPER12", "NoDigitsHere"} {
			_, err := svc.Register(ctx, "weak@x.com", pw, "", "")
			testutil.AssertAppError(t, err, "WEAK_PASSWORD")
		}
	})

	t.Run("missing_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserServiceWithCost(db, bcrypt.MinCost)

		_, err := svc.Register(ctx, "  ", "Abcdef12", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVerifyCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserServiceWithCost(db, bcrypt.MinCost)
	existing := testutil.CreateTestUserWithEmail(t, db, "login@x.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{name: "valid", email: "login@x.com", password: testutil.TestPassword},
		{name: "case_insensitive_email", email: "LOGIN@x.com", password: testutil.TestPassword},
		{name: "wrong_password", email: "login@x.com", password: "Wrong1234", wantCode: "INVALID_CREDENTIALS"},
		{name: "unknown_email", email: "nobody@x.com", password: testutil.TestPassword, wantCode: "INVALID_CREDENTIALS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.VerifyCredentials(ctx, tt.email, tt.password)
			if tt.wantCode != "" {
				testutil.AssertAppError(t, err, tt.wantCode)
				return
			}
			testutil.AssertNoError(t, err)
			if user.ID != existing.ID {
				t.Errorf("expected user %s, got %s", existing.ID, user.ID)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUser(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, got.Email)
	}

	_, err = svc.GetUser(ctx, missingID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
