package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultMyMemoryURL is the public MyMemory endpoint.
const DefaultMyMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemory is a client for the MyMemory translation API.
type MyMemory struct {
	httpClient *http.Client
	baseURL    string
	email      string
}

// NewMyMemory creates a client. An empty baseURL uses DefaultMyMemoryURL;
// a nil httpClient uses http.DefaultClient. When email is set it is sent as
// the "de" parameter, which raises the anonymous daily quota.
func NewMyMemory(httpClient *http.Client, baseURL, email string) *MyMemory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemory{
		httpClient: httpClient,
		baseURL:    baseURL,
		email:      email,
	}
}

// Translate issues a single GET request; there is no retry.
func (m *MyMemory) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	u, err := url.Parse(m.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", m.baseURL, err)
	}

	q := u.Query()
	q.Set("q", text)
	q.Set("langpair", LangPair(sourceCode, targetCode))
	if m.email != "" {
		q.Set("de", m.email)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("http status %d: %s", resp.StatusCode, body)
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return r.text()
}
