package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/finsightapp/finsight-backend/internal/service"
	"github.com/finsightapp/finsight-backend/internal/testutil"
)

func newUserHandler() (*UserHandler, *testutil.MockUserRepository) {
	userRepo := testutil.NewMockUserRepository()
	userService := service.NewUserService(userRepo)
	return NewUserHandler(userService), userRepo
}

func TestRegister_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newUserHandler()

	body := `{"username":"Alice","displayName":"Alice Smith"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/users", body)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Username != "alice" {
		t.Errorf("Expected lowercased username 'alice', got %s", resp.Username)
	}
	if resp.DisplayName != "Alice Smith" {
		t.Errorf("Expected display name 'Alice Smith', got %s", resp.DisplayName)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Errorf("Expected a UUID id, got %s", resp.ID)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	e := echo.New()
	handler, _ := newUserHandler()

	var first UserResponse
	for i := 0; i < 2; i++ {
		body := `{"username":"alice"}`
		c, rec := newJSONContext(e, http.MethodPost, "/api/v1/users", body)
		if err := handler.Register(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", rec.Code)
		}

		var resp UserResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if i == 0 {
			first = resp
		} else if resp.ID != first.ID {
			t.Errorf("Expected same user on repeat registration, got %s and %s", first.ID, resp.ID)
		}
	}
}

func TestRegister_MissingUsername(t *testing.T) {
	e := echo.New()
	handler, _ := newUserHandler()

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/users", `{"username":""}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetMe_Success(t *testing.T) {
	e := echo.New()
	handler, userRepo := newUserHandler()
	userID := seedUser(t, userRepo)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/users/me", "")
	setUserContext(c, userID)

	if err := handler.GetMe(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.ID != userID.String() {
		t.Errorf("Expected id %s, got %s", userID, resp.ID)
	}
}

func TestGetMe_UnknownUser(t *testing.T) {
	e := echo.New()
	handler, _ := newUserHandler()

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/users/me", "")
	setUserContext(c, uuid.New())

	if err := handler.GetMe(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
