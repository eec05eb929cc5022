package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError reports a required field missing from a draft.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Draft is a task before the store assigns its ID and creation date.
type Draft struct {
	Title       string
	Description string
	Category    string
	Priority    Priority
	Status      Status
	Due         time.Time
	AssignedTo  string
	Subtasks    []Subtask
	Notes       string
}

// Validate checks the fields the add form requires, in form order.
func (d Draft) Validate() error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return &ValidationError{Field: "title"}
	case strings.TrimSpace(d.Category) == "":
		return &ValidationError{Field: "category"}
	case d.Priority == "":
		return &ValidationError{Field: "priority"}
	case d.Due.IsZero():
		return &ValidationError{Field: "due date"}
	}
	return nil
}

// Normalize trims text fields, drops blank subtasks and defaults the status to
// Active.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.Status == "" {
		d.Status = StatusActive
	}
	subtasks := make([]Subtask, 0, len(d.Subtasks))
	for _, st := range d.Subtasks {
		st.Title = strings.TrimSpace(st.Title)
		if st.Title == "" {
			continue
		}
		subtasks = append(subtasks, st)
	}
	if len(subtasks) == 0 {
		subtasks = nil
	}
	d.Subtasks = subtasks
	return d
}

// Build turns the draft into a task with the given identity.
func (d Draft) Build(id string, createdAt time.Time) Task {
	return Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Priority:    d.Priority,
		Status:      d.Status,
		Due:         d.Due,
		AssignedTo:  d.AssignedTo,
		CreatedAt:   createdAt,
		Subtasks:    slices.Clone(d.Subtasks),
		Notes:       d.Notes,
	}
}

// Patch is a partial update. Nil fields are left untouched; set fields replace
// the stored value wholesale.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	Status      *Status
	Due         *time.Time
	AssignedTo  *string
	Subtasks    *[]Subtask
	Notes       *string
}

func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns t with the patch merged in.
func (p Patch) Apply(t Task) Task {
	t = t.Clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Due != nil {
		t.Due = *p.Due
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Subtasks != nil {
		t.Subtasks = slices.Clone(*p.Subtasks)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}
