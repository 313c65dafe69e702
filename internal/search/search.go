// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search holds the search-as-you-type policy: queries shorter than
// MinQueryLength are never sent, and bursts of keystrokes collapse into a
// single request after a quiet period.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest trimmed query, in characters, that is
	// sent to the backend.
	MinQueryLength = 2

	// QuietPeriod is how long input must stay unchanged before searching.
	QuietPeriod = 300 * time.Millisecond
)

// ErrSuperseded is returned to a debounced call replaced by a newer one.
var ErrSuperseded = errors.New("search superseded by newer input")

var hints = map[string]string{
	"ko": "2글자 이상 입력해주세요",
	"en": "Enter at least 2 characters",
}

// Query is a prepared search input.
type Query struct {
	Text     string
	TooShort bool
	Hint     string
}

// Prepare trims raw input and decides whether it may be sent. Short
// queries carry a "type more" hint instead.
func Prepare(raw string) Query {
	return PrepareLang(raw, "ko")
}

// PrepareLang is Prepare with the hint in the given language.
func PrepareLang(raw, lang string) Query {
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) >= MinQueryLength {
		return Query{Text: text}
	}
	hint, ok := hints[lang]
	if !ok {
		hint = hints["ko"]
	}
	return Query{Text: text, TooShort: true, Hint: hint}
}

type pending struct {
	timer *time.Timer
	fire  chan struct{}
	drop  chan struct{}
}

// Debouncer runs at most one function per key per quiet period. Each key
// (typically one browser session) debounces independently.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	waiting map[string]*pending
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, waiting: make(map[string]*pending)}
}

// Do waits for the quiet period and then calls fn. If another Do for the
// same key arrives first, this call returns ErrSuperseded without calling
// fn. Cancelling ctx abandons the wait.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	p := &pending{fire: make(chan struct{}), drop: make(chan struct{})}

	d.mu.Lock()
	if prev, ok := d.waiting[key]; ok && prev.timer.Stop() {
		close(prev.drop)
	}
	p.timer = time.AfterFunc(d.delay, func() { close(p.fire) })
	d.waiting[key] = p
	d.mu.Unlock()

	select {
	case <-p.fire:
		d.forget(key, p)
		return fn(ctx)
	case <-p.drop:
		return ErrSuperseded
	case <-ctx.Done():
		d.mu.Lock()
		if d.waiting[key] == p {
			p.timer.Stop()
			delete(d.waiting, key)
		}
		d.mu.Unlock()
		return ctx.Err()
	}
}

// Cancel drops the pending call for key, if any, which then returns
// ErrSuperseded. Input that is not searchable still restarts the burst.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	if prev, ok := d.waiting[key]; ok {
		if prev.timer.Stop() {
			close(prev.drop)
		}
		delete(d.waiting, key)
	}
	d.mu.Unlock()
}

func (d *Debouncer) forget(key string, p *pending) {
	d.mu.Lock()
	if d.waiting[key] == p {
		delete(d.waiting, key)
	}
	d.mu.Unlock()
}
