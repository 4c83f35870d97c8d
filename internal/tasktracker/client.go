package tasktracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"pregnancy-companion/internal/config"
)

// Task is a single created task as returned by the tracker API.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Client is an interface for a task-tracker API client.
type Client interface {
	CreateTask(content string) (*Task, error)
	CreateTasks(contents []string) (created int)
}

// trackerClient is the concrete implementation of the task-tracker client.
type trackerClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new task-tracker API client.
func NewClient(cfg *config.Config) Client {
	return &trackerClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     cfg,
	}
}

// CreateTask creates one due-today task.
func (c *trackerClient) CreateTask(content string) (*Task, error) {
	if c.config.TaskTrackerURL == "" || c.config.TaskTrackerToken == "" {
		return nil, fmt.Errorf("task tracker is not configured")
	}

	payload := map[string]interface{}{
		"content":    content,
		"due_string": "today",
		"priority":   3,
	}
	if c.config.TaskTrackerProjectID != "" {
		payload["project_id"] = c.config.TaskTrackerProjectID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v2/tasks", c.config.TaskTrackerURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.TaskTrackerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("task tracker api error: status %d", resp.StatusCode)
	}

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &task, nil
}

// CreateTasks creates a batch of tasks, skipping individual failures so the
// conversation can still close cleanly. It returns how many were created.
func (c *trackerClient) CreateTasks(contents []string) (created int) {
	for _, content := range contents {
		task, err := c.CreateTask(content)
		if err != nil {
			log.Printf("Warning: failed to create tracker task %q: %v", content, err)
			continue
		}
		log.Printf("Created tracker task: %s (ID: %s)", task.Content, task.ID)
		created++
	}
	return created
}
