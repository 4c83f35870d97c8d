package tasktracker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pregnancy-companion/internal/config"
)

func TestCreateTask(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v2/tasks" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Task{ID: "42", Content: "Drink one glass of water now"})
	}))
	defer ts.Close()

	client := NewClient(&config.Config{
		TaskTrackerURL:       ts.URL,
		TaskTrackerToken:     "secret",
		TaskTrackerProjectID: "proj-1",
	})

	task, err := client.CreateTask("Drink one glass of water now")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID != "42" {
		t.Errorf("Expected task ID 42, got %q", task.ID)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected a bearer token, got %q", gotAuth)
	}
	if gotPayload["content"] != "Drink one glass of water now" {
		t.Errorf("Unexpected content: %v", gotPayload["content"])
	}
	if gotPayload["due_string"] != "today" {
		t.Errorf("Expected due_string today, got %v", gotPayload["due_string"])
	}
	if gotPayload["project_id"] != "proj-1" {
		t.Errorf("Expected the project id, got %v", gotPayload["project_id"])
	}
}

func TestCreateTask_NotConfigured(t *testing.T) {
	client := NewClient(&config.Config{})

	if _, err := client.CreateTask("anything"); err == nil {
		t.Error("Expected an error when the tracker is not configured")
	}
}

func TestCreateTasks_SkipsFailures(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Task{ID: "1"})
	}))
	defer ts.Close()

	client := NewClient(&config.Config{TaskTrackerURL: ts.URL, TaskTrackerToken: "secret"})

	created := client.CreateTasks([]string{"a", "b", "c"})
	if created != 2 {
		t.Errorf("Expected 2 created tasks, got %d", created)
	}
	if calls != 3 {
		t.Errorf("Expected the batch to continue past the failure, got %d calls", calls)
	}
}
