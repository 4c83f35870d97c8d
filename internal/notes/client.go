package notes

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pregnancy-companion/internal/config"
	"pregnancy-companion/internal/journal"

	"github.com/golang-jwt/jwt/v5"
)

// Page represents a created page in the notes database.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Client is an interface for the notes-database API client.
type Client interface {
	SaveEntry(entry journal.Entry) (*Page, error)
}

// notesClient is the concrete implementation of the notes-database client.
// The admin API authenticates with a short-lived token signed from an
// id:secret key pair.
type notesClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new notes-database API client.
func NewClient(cfg *config.Config) Client {
	return &notesClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     cfg,
	}
}

// SaveEntry posts a persisted journal entry as a page in the notes database.
func (c *notesClient) SaveEntry(entry journal.Entry) (*Page, error) {
	if c.config.NotesURL == "" || c.config.NotesAdminKey == "" {
		return nil, fmt.Errorf("notes database is not configured")
	}

	token, err := c.createAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	weekLabel := "N/A"
	if entry.PregnancyWeek > 0 {
		weekLabel = fmt.Sprintf("%d", entry.PregnancyWeek)
	}

	page := map[string]interface{}{
		"title":   fmt.Sprintf("Week %s - %s", weekLabel, entry.CreatedAt.Format("2006-01-02 15:04")),
		"body":    entry.Summary,
		"payload": entry,
	}

	body, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page: %w", err)
	}

	url := fmt.Sprintf("%s/api/admin/pages/", c.config.NotesURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("notes api error: status %d, body: %v", resp.StatusCode, errResp)
	}

	var created Page
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &created, nil
}

// createAdminToken generates a short-lived JWT for the notes admin API.
func (c *notesClient) createAdminToken() (string, error) {
	keyParts := strings.Split(c.config.NotesAdminKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
