// Package ghost talks to a Ghost blog that serves as the recipe box.
//
// Recipes live as posts tagged "recipe". The read-only Content API
// (key in the query string) lists them; the Admin API (short-lived JWT)
// receives new posts clipped from the web.
package ghost

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Post is a single post as the Ghost API represents it.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	UpdatedAt string `json:"updated_at"`
}

// PostsResponse is the envelope Ghost wraps post listings in.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

// Client reads and writes recipe posts on a Ghost instance.
type Client interface {
	FetchRecipes() ([]Post, error)
	CreatePost(title, html string, tags []string, publish bool) (*Post, error)
}

type ghostClient struct {
	httpClient *http.Client
	baseURL    string
	contentKey string
	adminKey   string
}

// NewClient returns a Client for the Ghost instance at baseURL.
// contentKey authorizes reads. adminKey ("id:secret") authorizes
// writes and may be left empty when CreatePost is never used.
func NewClient(baseURL, contentKey, adminKey string) Client {
	return &ghostClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		contentKey: contentKey,
		adminKey:   adminKey,
	}
}

// FetchRecipes lists every post tagged "recipe" via the Content API.
func (c *ghostClient) FetchRecipes() ([]Post, error) {
	query := url.Values{}
	query.Set("key", c.contentKey)
	query.Set("filter", "tag:recipe")
	query.Set("limit", "all")

	endpoint := fmt.Sprintf("%s/ghost/api/v3/content/posts/?%s", c.baseURL, query.Encode())

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api error: status %d", resp.StatusCode)
	}

	var postsResponse PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&postsResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return postsResponse.Posts, nil
}

// CreatePost writes a post through the Admin API. Posts tagged "recipe"
// show up on the next catalog sync; other tags stay out of the catalog.
// publish controls draft vs published.
func (c *ghostClient) CreatePost(title, html string, tags []string, publish bool) (*Post, error) {
	token, err := c.createAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	status := "draft"
	if publish {
		status = "published"
	}

	payload := map[string]interface{}{
		"posts": []map[string]interface{}{
			{
				"title":  title,
				"html":   html,
				"status": status,
				"tags":   tags,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ghost/api/v3/admin/posts/?source=html", c.baseURL)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admin api error: status %d", resp.StatusCode)
	}

	var response PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}

	return &response.Posts[0], nil
}

// createAdminToken signs the short-lived JWT the Admin API expects:
// HS256 over the hex-decoded secret, key id in the kid header,
// audience pinned to the admin endpoint.
func (c *ghostClient) createAdminToken() (string, error) {
	id, secretHex, ok := strings.Cut(c.adminKey, ":")
	if !ok {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/v3/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
