package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext carries HTTP state between steps of one scenario.
type TestContext struct {
	BaseURL    string
	SigningKey string
	client     *http.Client

	adminToken   string
	lastStatus   int
	lastBody     []byte
	lastResponse map[string]any
}

// NewTestContext reads E2E_BASE_URL and E2E_JWT_SIGNING_KEY, falling back to
// the server's development defaults.
func NewTestContext() *TestContext {
	base := os.Getenv("E2E_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	key := os.Getenv("E2E_JWT_SIGNING_KEY")
	if key == "" {
		key = "dev-secret-key-change-in-production"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(base, "/"),
		SigningKey: key,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reachable reports whether the server answers its health endpoint.
func (tc *TestContext) Reachable() bool {
	resp, err := tc.client.Get(tc.BaseURL + "/health")
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}

// IssueToken signs an operator token the way the server's JWT service expects.
func (tc *TestContext) IssueToken(subject, role string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iss":  "sybilguard",
		"aud":  []string{"sybilguard-admin"},
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return err
	}
	tc.adminToken = signed
	return nil
}

func (tc *TestContext) ClearToken() {
	tc.adminToken = ""
}

func (tc *TestContext) POST(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(payload))
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.adminToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastResponse = nil
	if len(tc.lastBody) > 0 {
		_ = json.Unmarshal(tc.lastBody, &tc.lastResponse)
	}
	return nil
}

func (tc *TestContext) StatusCode() int {
	return tc.lastStatus
}

// GetResponseField resolves a dotted path such as "score.strength".
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var current any = tc.lastResponse
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
		if current, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
	}
	return current, nil
}
