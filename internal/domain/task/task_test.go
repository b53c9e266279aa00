package task

import "testing"

func TestCreateRequestValidate(t *testing.T) {
	req := CreateRequest{ProjectID: "p1", Title: "Add login"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Type != TypeFeature {
		t.Fatalf("expected default type feature, got %q", req.Type)
	}

	bad := CreateRequest{ProjectID: "p1"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for missing title")
	}

	neg := CreateRequest{ProjectID: "p1", Title: "x", Points: -1}
	if err := neg.Validate(); err == nil {
		t.Fatal("expected error for negative points")
	}
}

func TestUpdateRequestApply(t *testing.T) {
	tk := Task{Title: "old", Status: StatusTodo, Points: 1}

	title := "new"
	status := StatusDone
	req := UpdateRequest{Title: &title, Status: &status}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Apply(&tk)

	if tk.Title != "new" {
		t.Fatalf("expected title updated, got %q", tk.Title)
	}
	if tk.Status != StatusDone {
		t.Fatalf("expected status done, got %q", tk.Status)
	}
	if tk.Points != 1 {
		t.Fatalf("points should be unchanged, got %d", tk.Points)
	}
}

func TestUpdateRequestValidateStatus(t *testing.T) {
	bad := Status("archived")
	req := UpdateRequest{Status: &bad}
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"todo", "in-progress", "in-review", "done"} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if ValidStatus("cancelled") {
		t.Fatal("expected cancelled to be invalid")
	}
}
