package model

import (
	"encoding/json"
	"fmt"
)

// Task is the domain model for a todo entry as the server hands it out.
// The wire names (`id`, `task`, `completed`) are fixed by the backend.
type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"task"`
	Completed bool   `json:"completed"`
}

// Toggled returns a copy of the task with the completed flag inverted.
// The receiver is left untouched so records held by a rendered list are
// never aliased into an in-flight request body.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// TaskID is the server-assigned identifier. The backend may hand out either
// a JSON string or a JSON number; we keep whichever form we received and
// echo it back verbatim in URLs and request bodies. The client never mints
// or rewrites one.
type TaskID struct {
	val    string
	number bool
}

// StringID builds a string-form id. Mostly useful in tests; real ids come
// from unmarshaling a server response.
func StringID(s string) TaskID { return TaskID{val: s} }

// String returns the id as it appears in a URL path segment.
func (id TaskID) String() string { return id.val }

// IsZero reports whether the id is unset.
func (id TaskID) IsZero() bool { return id.val == "" }

func (id *TaskID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID{val: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID{val: n.String(), number: true}
	return nil
}

func (id TaskID) MarshalJSON() ([]byte, error) {
	if id.number {
		return []byte(id.val), nil
	}
	return json.Marshal(id.val)
}
