package handlers

import (
	"net/http"
	"testing"

	"github.com/example/anihub/internal/blob"
	"github.com/example/anihub/internal/store"
	"github.com/example/anihub/internal/tokens"
)

func newUsersHandler() Users {
	return Users{
		Store:  store.NewInMemoryUserStore(),
		Tokens: tokens.Service{Secret: []byte("users-test-secret")},
		Blobs:  blob.NewMemoryStore(),
	}
}

func TestSignup_IssuesToken(t *testing.T) {
	h := newUsersHandler()

	rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup",
		`{"username":"vash","email":"vash@example.com","password":"love-and-peace"}`, nil, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var u store.User
	dataField(t, rr, "user", &u)
	if u.Role != "user" {
		t.Fatalf("expected role user, got %q", u.Role)
	}
	if !u.ProfileIsPublic {
		t.Fatal("expected profiles to default to public")
	}

	var token string
	dataField(t, rr, "token", &token)
	if token == "" {
		t.Fatal("expected a signed token in the response")
	}
	claims, err := h.Tokens.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("token subject %q does not match user %q", claims.Subject, u.ID)
	}
}

func TestSignup_Validation(t *testing.T) {
	h := newUsersHandler()

	cases := []struct {
		name string
		body string
	}{
		{"short username", `{"username":"ab","email":"a@b.com","password":"long-enough"}`},
		{"bad email", `{"username":"valid_name","email":"not-an-email","password":"long-enough"}`},
		{"short password", `{"username":"valid_name","email":"a@b.com","password":"short"}`},
	}
	for _, tc := range cases {
		rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup", tc.body, nil, ""))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rr.Code)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newUsersHandler()

	body := `{"username":"vash","email":"vash@example.com","password":"love-and-peace"}`
	if rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup", body, nil, "")); rr.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", rr.Code)
	}

	rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup", body, nil, ""))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a duplicate, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Message != "a user with that email or username already exists." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestLogin_RoundtripAndBadCredentials(t *testing.T) {
	h := newUsersHandler()

	signup := `{"username":"vash","email":"vash@example.com","password":"love-and-peace"}`
	if rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup", signup, nil, "")); rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rr.Code)
	}

	rr := do(h.Login, setupReq(http.MethodPost, "/v1/users/login",
		`{"email":"VASH@example.com","password":"love-and-peace"}`, nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with a case-folded email, got %d: %s", rr.Code, rr.Body.String())
	}

	// wrong password and unknown email are indistinguishable
	for _, body := range []string{
		`{"email":"vash@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"love-and-peace"}`,
	} {
		rr := do(h.Login, setupReq(http.MethodPost, "/v1/users/login", body, nil, ""))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Message != "incorrect email or password." {
			t.Fatalf("unexpected message: %q", env.Message)
		}
	}
}

func TestUpdatePassword(t *testing.T) {
	h := newUsersHandler()

	rr := do(h.Signup, setupReq(http.MethodPost, "/v1/users/signup",
		`{"username":"vash","email":"vash@example.com","password":"love-and-peace"}`, nil, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rr.Code)
	}
	var u store.User
	dataField(t, rr, "user", &u)

	rr = do(h.UpdatePassword, setupReq(http.MethodPatch, "/v1/users/update-my-password",
		`{"currentPassword":"nope","newPassword":"a-new-password"}`, nil, u.ID))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong current password, got %d", rr.Code)
	}

	rr = do(h.UpdatePassword, setupReq(http.MethodPatch, "/v1/users/update-my-password",
		`{"currentPassword":"love-and-peace","newPassword":"a-new-password"}`, nil, u.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// old password no longer works, new one does
	rr = do(h.Login, setupReq(http.MethodPost, "/v1/users/login",
		`{"email":"vash@example.com","password":"love-and-peace"}`, nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected the old password to be rejected, got %d", rr.Code)
	}
	rr = do(h.Login, setupReq(http.MethodPost, "/v1/users/login",
		`{"email":"vash@example.com","password":"a-new-password"}`, nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected the new password to work, got %d", rr.Code)
	}
}
