package auth

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"portfolio/internal/database"
)

func setupTestAuthDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), database.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func TestHasUsers(t *testing.T) {
	db := setupTestAuthDB(t)

	ok, err := HasUsers(db)
	if err != nil {
		t.Fatalf("HasUsers failed: %v", err)
	}
	if ok {
		t.Error("Expected no users in a fresh database")
	}

	if err := CreateUser(db, "admin", "testpassword123"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if ok, _ = HasUsers(db); !ok {
		t.Error("Expected HasUsers after creation")
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestAuthDB(t)
	if err := CreateUser(db, "admin", "testpassword123"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		session, err := Authenticate(db, "admin", "testpassword123")
		if err != nil {
			t.Fatalf("Authentication failed: %v", err)
		}
		if session.ID == "" || session.UserID == 0 {
			t.Errorf("Session not initialized: %+v", session)
		}
		if !session.ExpiresAt.After(time.Now()) {
			t.Error("Session already expired")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := Authenticate(db, "admin", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := Authenticate(db, "nobody", "testpassword123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestAuthDB(t)
	if err := CreateUser(db, "admin", "testpassword123"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	session, err := Authenticate(db, "admin", "testpassword123")
	if err != nil {
		t.Fatalf("Authentication failed: %v", err)
	}

	got, err := ValidateSession(db, session.ID)
	if err != nil {
		t.Fatalf("Failed to validate session: %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("Session user mismatch: %d != %d", got.UserID, session.UserID)
	}

	if _, err := ValidateSession(db, "bogus"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for bogus ID, got %v", err)
	}

	if err := InvalidateSession(db, session.ID); err != nil {
		t.Fatalf("Failed to invalidate session: %v", err)
	}
	if _, err := ValidateSession(db, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after invalidation, got %v", err)
	}
}

func TestCleanExpiredSessions(t *testing.T) {
	db := setupTestAuthDB(t)
	if err := CreateUser(db, "admin", "testpassword123"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	session, err := Authenticate(db, "admin", "testpassword123")
	if err != nil {
		t.Fatalf("Authentication failed: %v", err)
	}

	// Force the session into the past.
	if _, err := db.Exec(
		"UPDATE sessions SET expires_at = ? WHERE id = ?",
		time.Now().Add(-time.Hour), session.ID,
	); err != nil {
		t.Fatalf("Failed to expire session: %v", err)
	}

	if _, err := ValidateSession(db, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected expired session to fail validation, got %v", err)
	}

	if err := CleanExpiredSessions(db); err != nil {
		t.Fatalf("Failed to clean sessions: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 sessions after cleanup, got %d", count)
	}
}
