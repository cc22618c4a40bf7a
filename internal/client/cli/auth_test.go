package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
)

// stubInputs replaces the interactive input seams. Each call to the text
// prompt pops the next queued answer.
func stubInputs(t *testing.T, answers []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			t.Fatalf("unexpected prompt #%d", i+1)
		}
		a := answers[i]
		i++
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

func writeEnvelope(w http.ResponseWriter, status int, data any, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    success,
	})
}

func newAppAgainst(t *testing.T, handler http.Handler) *App {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.Config{ServerEndpointAddr: ts.URL, RequestTimeout: 5 * time.Second}
	return NewApp(cfg)
}

func TestRegisterCommand(t *testing.T) {
	avatar := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(avatar, []byte("img"), 0o600); err != nil {
		t.Fatal(err)
	}

	var gotUsername, gotAvatarName string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/register", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotUsername = r.FormValue("username")
		if _, header, err := r.FormFile("avatar"); err == nil {
			gotAvatarName = header.Filename
		}
		writeEnvelope(w, http.StatusCreated, map[string]string{"id": "u-1", "username": "alice"}, true, "ok")
	})

	app := newAppAgainst(t, mux)
	restore := stubInputs(t, []string{"Alice", "alice@x.com", "alice", avatar}, []byte("Passw0rd"))
	defer restore()

	if err := app.Register(context.Background()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if gotUsername != "alice" || gotAvatarName != "a.png" {
		t.Fatalf("unexpected form: username=%q avatar=%q", gotUsername, gotAvatarName)
	}
}

func TestLoginCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["username"] != "alice" || req["password"] != "Passw0rd" {
			writeEnvelope(w, http.StatusUnauthorized, nil, false, "invalid user credentials")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"user":        map[string]string{"id": "u-1", "username": "alice"},
			"accessToken": "token-123",
		}, true, "ok")
	})
	mux.HandleFunc("GET /api/v1/users/current-user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			writeEnvelope(w, http.StatusUnauthorized, nil, false, "unauthorized request")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]string{"id": "u-1", "username": "alice"}, true, "ok")
	})

	app := newAppAgainst(t, mux)
	restore := stubInputs(t, []string{"alice"}, []byte("Passw0rd"))
	defer restore()

	if err := app.Login(context.Background()); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !app.api.LoggedIn() {
		t.Fatal("client must remember the access token")
	}
	if err := app.WhoAmI(context.Background()); err != nil {
		t.Fatalf("WhoAmI error: %v", err)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, false, "invalid user credentials")
	})

	app := newAppAgainst(t, mux)
	restore := stubInputs(t, []string{"alice"}, []byte("wrong"))
	defer restore()

	if err := app.Login(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if app.api.LoggedIn() {
		t.Fatal("failed login must not store a token")
	}
}
