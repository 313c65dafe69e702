// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package comments implements the two-level comment tree shown under an
// article: normalization from the backend shape, counting, optimistic
// insertion and traversal for rendering.
package comments

import (
	"bytes"
	"encoding/json"
	"strings"

	"techblog/internal/models"
)

// ID is an identifier that arrives as a JSON number or string. Numbers
// keep their literal digits, so values past 2^53 stay exact.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Raw is a comment as the backend returns it. CreatedAt is an ISO-8601
// timestamp.
type Raw struct {
	ID        ID     `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Replies   []Raw  `json:"replies"`
}

// Normalize converts backend comments into the canonical model. Replies
// inherit their parent's ID as ParentID.
func Normalize(articleID string, raw []Raw) []models.Comment {
	out := make([]models.Comment, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalize(articleID, r, nil))
	}
	return out
}

func normalize(articleID string, r Raw, parent *string) models.Comment {
	c := models.Comment{
		ID:        string(r.ID),
		ArticleID: articleID,
		Author:    r.Author,
		Content:   r.Content,
		CreatedAt: MinuteTimestamp(r.CreatedAt),
		ParentID:  parent,
		Replies:   []models.Comment{},
	}
	id := c.ID
	for _, reply := range r.Replies {
		c.Replies = append(c.Replies, normalize(articleID, reply, &id))
	}
	return c
}

// MinuteTimestamp turns "2024-01-15T10:30:00" into "2024-01-15 10:30".
func MinuteTimestamp(iso string) string {
	s := strings.Replace(iso, "T", " ", 1)
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}

// CountAll returns the number of top-level comments plus their direct
// replies. Deeper levels are not counted.
func CountAll(list []models.Comment) int {
	n := 0
	for _, c := range list {
		n += 1 + len(c.Replies)
	}
	return n
}

// AddReply returns a new list with reply appended to the replies of the
// top-level comment parentID. The input list is returned as-is when no
// parent matches. The input is never mutated.
func AddReply(list []models.Comment, parentID string, reply models.Comment) []models.Comment {
	idx := -1
	for i := range list {
		if list[i].ID == parentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}

	pid := parentID
	reply.ParentID = &pid
	if reply.Replies == nil {
		reply.Replies = []models.Comment{}
	}

	out := make([]models.Comment, len(list))
	copy(out, list)

	parent := out[idx]
	replies := make([]models.Comment, 0, len(parent.Replies)+1)
	replies = append(replies, parent.Replies...)
	parent.Replies = append(replies, reply)
	out[idx] = parent
	return out
}

// AddTopLevel returns a new list with c first, matching the
// most-recent-first ordering of top-level comments.
func AddTopLevel(list []models.Comment, c models.Comment) []models.Comment {
	c.ParentID = nil
	if c.Replies == nil {
		c.Replies = []models.Comment{}
	}
	out := make([]models.Comment, 0, len(list)+1)
	out = append(out, c)
	return append(out, list...)
}
