package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxCommentLength = 4000

type Comment struct {
	ID        string    `json:"id"`
	OrderRef  string    `json:"os_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) Normalize() {
	c.Author = strings.TrimSpace(c.Author)
	if c.Author == "" {
		c.Author = SystemActor.ID
	}
	c.Body = strings.TrimSpace(c.Body)
}

func (c Comment) Validate() error {
	verr := &ValidationError{}
	if c.Body == "" {
		verr.add("body", "is required")
	}
	if utf8.RuneCountInString(c.Body) > MaxCommentLength {
		verr.add("body", "is too long")
	}
	return verr.orNil()
}
