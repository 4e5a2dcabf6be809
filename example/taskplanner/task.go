// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package taskplanner is a small task planning service served through
// controller registration.
package taskplanner

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks tasks.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

// String implements the [fmt.Stringer] interface.
func (p Priority) String() string {
	switch p {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (p *Priority) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "LOW":
		*p = Low
	case "MEDIUM", "":
		*p = Medium
	case "HIGH":
		*p = High
	default:
		return fmt.Errorf("unknown priority: %q", b)
	}
	return nil
}

// Comment is a remark left on a task.
type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a unit of planned work.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Priority    Priority  `json:"priority"`
	Description string    `json:"description,omitempty"`
	Rating      int       `json:"rating"`
	Owner       string    `json:"owner,omitempty"`
	SharedWith  []string  `json:"sharedWith"`
	LikedBy     []string  `json:"likedBy"`
	Comments    []Comment `json:"comments"`
}

func (t Task) clone() Task {
	t.SharedWith = append([]string{}, t.SharedWith...)
	t.LikedBy = append([]string{}, t.LikedBy...)
	t.Comments = append([]Comment{}, t.Comments...)
	return t
}
