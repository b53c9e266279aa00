//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
)

func postJSON(t *testing.T, path string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(testServer.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestProjectCRUDLifecycle(t *testing.T) {
	cleanDB(testPool)

	resp, err := http.Get(testServer.URL + "/api/v1/projects")
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}

	var projects []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected 0 projects, got %d", len(projects))
	}

	resp2, created := postJSON(t, "/api/v1/projects", map[string]any{
		"name":           "Board Alpha",
		"key":            "ALPHA",
		"repo_full_name": "acme/alpha",
	})
	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp2.StatusCode)
	}

	projectID, ok := created["id"].(string)
	if !ok || projectID == "" {
		t.Fatal("expected non-empty project ID")
	}
	if created["key"] != "ALPHA" {
		t.Fatalf("expected key ALPHA, got %v", created["key"])
	}

	resp3, err := http.Get(testServer.URL + "/api/v1/projects/" + projectID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	defer func() { _ = resp3.Body.Close() }()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp3.StatusCode)
	}

	// Duplicate key must be rejected.
	resp4, _ := postJSON(t, "/api/v1/projects", map[string]any{
		"name": "Board Alpha Again",
		"key":  "ALPHA",
	})
	if resp4.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate key: expected 409, got %d", resp4.StatusCode)
	}
}

func TestTaskKeysFollowProjectSequence(t *testing.T) {
	cleanDB(testPool)

	_, created := postJSON(t, "/api/v1/projects", map[string]any{
		"name": "Board Beta",
		"key":  "BETA",
	})
	projectID := created["id"].(string)

	_, t1 := postJSON(t, "/api/v1/projects/"+projectID+"/tasks", map[string]any{"title": "first"})
	_, t2 := postJSON(t, "/api/v1/projects/"+projectID+"/tasks", map[string]any{"title": "second"})

	if t1["key"] != "BETA-1" {
		t.Fatalf("first key = %v, want BETA-1", t1["key"])
	}
	if t2["key"] != "BETA-2" {
		t.Fatalf("second key = %v, want BETA-2", t2["key"])
	}
	if t1["status"] != "todo" {
		t.Fatalf("new task status = %v, want todo", t1["status"])
	}
}

func TestWebhookSyncFlow(t *testing.T) {
	cleanDB(testPool)

	_, created := postJSON(t, "/api/v1/projects", map[string]any{
		"name":           "Board Gamma",
		"key":            "GAMMA",
		"repo_full_name": "acme/gamma",
	})
	projectID := created["id"].(string)

	_, task1 := postJSON(t, "/api/v1/projects/"+projectID+"/tasks", map[string]any{"title": "ship it"})
	taskID := task1["id"].(string)

	payload := map[string]any{
		"ref":        "refs/heads/main",
		"repository": map[string]any{"full_name": "acme/gamma"},
		"commits": []map[string]any{
			{"id": "c1", "message": "start GAMMA-1", "url": "https://example.com/c1"},
			{"id": "c2", "message": "fixes GAMMA-1 and mentions GAMMA-99", "url": "https://example.com/c2"},
		},
	}
	data, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", testServer.URL+"/api/v1/webhooks/vcs/github", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "push")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d", resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode webhook result: %v", err)
	}
	if result["outcome"] != "completed" {
		t.Fatalf("outcome = %v, want completed", result["outcome"])
	}
	if result["tasks_updated"].(float64) != 2 {
		t.Fatalf("tasks_updated = %v, want 2", result["tasks_updated"])
	}

	resp2, err := http.Get(testServer.URL + "/api/v1/tasks/" + taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	var synced map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&synced); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if synced["status"] != "done" {
		t.Fatalf("status = %v, want done from the closing commit", synced["status"])
	}
	if synced["last_commit_url"] != "https://example.com/c2" {
		t.Fatalf("last_commit_url = %v", synced["last_commit_url"])
	}
}
