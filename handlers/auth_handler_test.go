package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSignupAndLogin(t *testing.T) {
	app, _ := setupTestApp(t)

	signup := map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@notesnest.test",
		"password":  "secret123",
	}
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/user/signup", "", signup)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	if created["role"] != "user" {
		t.Errorf("expected default role user, got %v", created["role"])
	}
	if _, leaked := created["password"]; leaked {
		t.Error("password hash must not be serialized")
	}

	login := map[string]interface{}{"email": "ada@notesnest.test", "password": "secret123"}
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", "", login)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the login response")
	}

	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/user/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on logout, got %d", resp.StatusCode)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, _ := setupTestApp(t)
	seedUser(t, "ada@notesnest.test", "user")

	signup := map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@notesnest.test",
		"password":  "secret123",
	}
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/user/signup", "", signup)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupTestApp(t)
	seedUser(t, "ada@notesnest.test", "user")

	login := map[string]interface{}{"email": "ada@notesnest.test", "password": "wrong-password"}
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/user/login", "", login)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
