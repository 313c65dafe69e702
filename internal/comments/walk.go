// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package comments

import "techblog/internal/models"

// Entry is one row of the flattened render list.
type Entry struct {
	Comment *models.Comment
	Depth   int
}

// Walk visits every comment in pre-order, top-level first, with its depth
// (0 for top level). Traversal uses an explicit stack so arbitrarily deep
// trees cannot exhaust the goroutine stack. Returning false from fn stops
// the walk.
func Walk(list []models.Comment, fn func(c *models.Comment, depth int) bool) {
	type frame struct {
		c     *models.Comment
		depth int
	}

	stack := make([]frame, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		stack = append(stack, frame{c: &list[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.c, top.depth) {
			return
		}
		for i := len(top.c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{c: &top.c.Replies[i], depth: top.depth + 1})
		}
	}
}

// Flatten returns the pre-order render list of the tree.
func Flatten(list []models.Comment) []Entry {
	var out []Entry
	Walk(list, func(c *models.Comment, depth int) bool {
		out = append(out, Entry{Comment: c, Depth: depth})
		return true
	})
	return out
}
