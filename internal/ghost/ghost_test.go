package ghost

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testContentKey = "test_key"
	testAdminID    = "keyid123"
	testAdminHex   = "0123456789abcdef0123456789abcdef"
)

func TestFetchRecipes(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Mock Ghost Content API server
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ghost/api/v3/content/posts/" {
				t.Errorf("Expected content posts path, got '%s'", r.URL.Path)
			}
			if r.URL.Query().Get("key") != testContentKey {
				t.Errorf("Expected key '%s', got '%s'", testContentKey, r.URL.Query().Get("key"))
			}
			if r.URL.Query().Get("filter") != "tag:recipe" {
				t.Errorf("Expected filter 'tag:recipe', got '%s'", r.URL.Query().Get("filter"))
			}
			if r.URL.Query().Get("limit") != "all" {
				t.Errorf("Expected limit 'all', got '%s'", r.URL.Query().Get("limit"))
			}

			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"posts": [
					{"id": "1", "title": "Scrambled Eggs", "html": "<h2>Ingredients</h2>", "updated_at": "2024-10-27T10:00:00Z"},
					{"id": "2", "title": "Pasta", "html": "<h2>Ingredients</h2>", "updated_at": "2024-10-28T10:00:00Z"}
				]
			}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, testContentKey, "")

		posts, err := client.FetchRecipes()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if len(posts) != 2 {
			t.Fatalf("Expected 2 posts, got %d", len(posts))
		}
		if posts[0].Title != "Scrambled Eggs" {
			t.Errorf("Expected first post 'Scrambled Eggs', got '%s'", posts[0].Title)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, testContentKey, "")

		_, err := client.FetchRecipes()
		if err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})

	t.Run("TrailingSlashBaseURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "//") {
				t.Errorf("Expected normalized path, got '%s'", r.URL.Path)
			}
			fmt.Fprintln(w, `{"posts": []}`)
		}))
		defer server.Close()

		client := NewClient(server.URL+"/", testContentKey, "")

		if _, err := client.FetchRecipes(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})
}

func TestCreatePost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Mock Ghost Admin API server; verifies the signed token.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("Expected POST, got '%s'", r.Method)
			}
			if r.URL.Path != "/ghost/api/v3/admin/posts/" {
				t.Errorf("Expected admin posts path, got '%s'", r.URL.Path)
			}
			if r.URL.Query().Get("source") != "html" {
				t.Errorf("Expected source 'html', got '%s'", r.URL.Query().Get("source"))
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Ghost ") {
				t.Errorf("Expected 'Ghost ' authorization scheme, got '%s'", auth)
			}
			parsed, err := jwt.Parse(strings.TrimPrefix(auth, "Ghost "), func(token *jwt.Token) (interface{}, error) {
				return hex.DecodeString(testAdminHex)
			})
			if err != nil {
				t.Errorf("Expected a verifiable token, got %v", err)
			} else {
				if kid, _ := parsed.Header["kid"].(string); kid != testAdminID {
					t.Errorf("Expected kid '%s', got '%s'", testAdminID, kid)
				}
				claims := parsed.Claims.(jwt.MapClaims)
				if aud, _ := claims["aud"].(string); aud != "/v3/admin/" {
					t.Errorf("Expected aud '/v3/admin/', got '%s'", aud)
				}
			}

			var payload struct {
				Posts []struct {
					Title  string   `json:"title"`
					HTML   string   `json:"html"`
					Status string   `json:"status"`
					Tags   []string `json:"tags"`
				} `json:"posts"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("Expected a decodable body, got %v", err)
			}
			if len(payload.Posts) != 1 {
				t.Fatalf("Expected 1 post in payload, got %d", len(payload.Posts))
			}
			if payload.Posts[0].Status != "draft" {
				t.Errorf("Expected status 'draft', got '%s'", payload.Posts[0].Status)
			}
			if len(payload.Posts[0].Tags) != 1 || payload.Posts[0].Tags[0] != "recipe" {
				t.Errorf("Expected tags ['recipe'], got %v", payload.Posts[0].Tags)
			}

			w.WriteHeader(http.StatusCreated)
			fmt.Fprintln(w, `{"posts": [{"id": "9", "title": "Clipped Curry", "html": "<p>x</p>", "updated_at": "2024-11-01T10:00:00Z"}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, testContentKey, testAdminID+":"+testAdminHex)

		post, err := client.CreatePost("Clipped Curry", "<p>x</p>", []string{"recipe"}, false)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if post.ID != "9" {
			t.Errorf("Expected created post id '9', got '%s'", post.ID)
		}
	})

	t.Run("PublishStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := map[string][]map[string]interface{}{}
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				t.Errorf("Expected a decodable body, got %v", err)
			}
			if status := raw["posts"][0]["status"]; status != "published" {
				t.Errorf("Expected status 'published', got '%v'", status)
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintln(w, `{"posts": [{"id": "10", "title": "T", "html": "", "updated_at": ""}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, testContentKey, testAdminID+":"+testAdminHex)

		if _, err := client.CreatePost("T", "", nil, true); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("InvalidAdminKey", func(t *testing.T) {
		client := NewClient("http://unused.invalid", testContentKey, "missing-separator")

		_, err := client.CreatePost("T", "", nil, false)
		if err == nil {
			t.Fatal("Expected an error for a key without id:secret, got nil")
		}
	})

	t.Run("BadSecretHex", func(t *testing.T) {
		client := NewClient("http://unused.invalid", testContentKey, "id:not-hex!")

		_, err := client.CreatePost("T", "", nil, false)
		if err == nil {
			t.Fatal("Expected an error for a non-hex secret, got nil")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewClient(server.URL, testContentKey, testAdminID+":"+testAdminHex)

		_, err := client.CreatePost("T", "", nil, false)
		if err == nil {
			t.Fatal("Expected an error for non-2xx status code, got nil")
		}
	})
}
