// Package api is a thin HTTP client for the account service, used by the
// admin CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// User is the sanitized account projection returned by the service.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	AvatarURL     string `json:"avatarUrl"`
	CoverImageURL string `json:"coverImageUrl"`
}

// RegisterForm carries the registration fields. AvatarPath must point at a
// local image file; CoverImagePath may be empty.
type RegisterForm struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// Client talks to the account service HTTP API. After a successful Login it
// keeps the access token and sends it as a Bearer header on protected calls.
type Client struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LoggedIn reports whether a Login succeeded earlier in this session.
func (c *Client) LoggedIn() bool {
	return c.accessToken != ""
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("server error (%d): %s", env.StatusCode, env.Message)
	}
	return &env, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*envelope, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func addFormFile(mw *multipart.Writer, field, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fw, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

// Register creates an account, uploading the avatar (and optional cover
// image) as multipart form files.
func (c *Client) Register(ctx context.Context, form RegisterForm) (*User, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := map[string]string{
		"fullName": form.FullName,
		"email":    form.Email,
		"username": form.Username,
		"password": form.Password,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := addFormFile(mw, "avatar", form.AvatarPath); err != nil {
		return nil, err
	}
	if err := addFormFile(mw, "coverImage", form.CoverImagePath); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/users/register", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Login authenticates and remembers the access token for later calls.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	env, err := c.postJSON(ctx, "/api/v1/users/login", map[string]string{
		"username": identifier,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		User        User   `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}

	c.accessToken = data.AccessToken
	return &data.User, nil
}

// CurrentUser fetches the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/users/current-user", nil)
	if err != nil {
		return nil, err
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Logout invalidates the server-side session and forgets the access token.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/users/logout", nil)
	if err != nil {
		return err
	}

	if _, err := c.do(req); err != nil {
		return err
	}
	c.accessToken = ""
	return nil
}
