// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Comment is a node of the two-level comment tree. Replies holds direct
// children only; ParentID is nil for top-level comments. CreatedAt is the
// display timestamp at minute precision (YYYY-MM-DD HH:MM).
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	ParentID  *string   `json:"parentId"`
	Replies   []Comment `json:"replies"`
}

// IsReply reports whether the comment hangs off a parent.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentInput is a comment or reply submission.
type CommentInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}
