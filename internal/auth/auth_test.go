package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vinay-852/MediTracker-Backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubProvisioner struct {
	created []uint
	err     error
	hook    func(tx *gorm.DB) error
}

func (p *stubProvisioner) CreateForUser(tx *gorm.DB, userID uint) error {
	if p.err != nil {
		return p.err
	}
	if p.hook != nil {
		if err := p.hook(tx); err != nil {
			return err
		}
	}
	p.created = append(p.created, userID)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Schedule{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *stubProvisioner) {
	t.Helper()
	provisioner := &stubProvisioner{}
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	return NewService(setupTestDB(t), tokens, BcryptVerifier{}, provisioner), provisioner
}

func TestRegister(t *testing.T) {
	svc, provisioner := newTestService(t)

	profile, token, err := svc.Register("alice", "a@x.com", "secret123", "555-0100", "female")
	if err != nil {
		t.Fatalf("unexpected error on register: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty string")
	}
	if profile.Email != "a@x.com" || profile.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if len(provisioner.created) != 1 || provisioner.created[0] != profile.ID {
		t.Fatalf("expected schedule provisioned for user %d, got %v", profile.ID, provisioner.created)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Register("alice", "a@x.com", "secret123", "", ""); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	_, _, err := svc.Register("alice2", "a@x.com", "other456", "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRollsBackWhenProvisioningFails(t *testing.T) {
	svc, provisioner := newTestService(t)
	provisioner.err = errors.New("boom")

	if _, _, err := svc.Register("alice", "a@x.com", "secret123", "", ""); err == nil {
		t.Fatal("expected register to fail")
	}

	// The user write must not survive the failed schedule write.
	var count int64
	if err := svc.db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no user rows after rollback, got %d", count)
	}
}

func TestRegisterMapsUniqueViolationToEmailTaken(t *testing.T) {
	svc, provisioner := newTestService(t)

	// A racing registration can slip past the email pre-check and land inside
	// the transaction; the loser hits the unique index and must still see the
	// conflict, not an internal error. The hook reproduces the loser's view.
	provisioner.hook = func(tx *gorm.DB) error {
		return tx.Create(&models.User{Username: "mallory", Email: "a@x.com", PasswordHash: "x"}).Error
	}

	_, _, err := svc.Register("alice", "a@x.com", "secret123", "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The losing transaction must leave nothing behind.
	var count int64
	if err := svc.db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no user rows after conflict, got %d", count)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Register("alice", "a@x.com", "secret123", "", ""); err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	profile, token, err := svc.Login("a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty string")
	}
	if profile.Email != "a@x.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, _, err := svc.Login("a@x.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on wrong password, got %v", err)
	}
	if _, _, err := svc.Login("nobody@x.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on unknown email, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService(t)

	created, _, err := svc.Register("alice", "a@x.com", "secret123", "555-0100", "female")
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	profile, err := svc.GetProfile(created.ID)
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if profile != created {
		t.Fatalf("expected %+v, got %+v", created, profile)
	}

	if _, err := svc.GetProfile(created.ID + 100); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := tokens.Sign(42)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		t.Fatal("token already expired")
	}
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	token, err := tokens.Sign(42)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := tokens.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService([]byte("secret-a"), time.Hour).Sign(42)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := NewTokenService([]byte("secret-b"), time.Hour).Parse(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok || userID != 7 {
			t.Fatalf("expected user id 7 in context, got %d (ok=%v)", userID, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Result().StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Result().StatusCode)
	}

	token, err := tokens.Sign(7)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Result().StatusCode)
	}
}
