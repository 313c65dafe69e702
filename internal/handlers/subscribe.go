// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"techblog/internal/models"
)

const (
	msgAlreadySubscribed = "이미 구독된 이메일입니다."
	msgSubscribeFailed   = "구독 중 오류가 발생했습니다. 다시 시도해주세요."
)

// SubscribeForm renders the newsletter form.
func (p *Public) SubscribeForm(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusOK, "subscribe", p.page(r, "아티클 구독", "subscribe", nil))
}

// Subscribe validates the form and registers the subscription. A duplicate
// email is reported inline rather than as a failure page.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	in := models.SubscribeInput{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Email: strings.TrimSpace(r.FormValue("email")),
	}
	agreed := r.FormValue("agreed") == "on"

	data := map[string]any{
		"Name":   in.Name,
		"Email":  in.Email,
		"Agreed": agreed,
	}

	if err := validateSubscription(in, agreed); err != nil {
		data["Errors"] = fieldMessages(err)
		p.renderer.Page(w, r, http.StatusUnprocessableEntity, "subscribe", p.page(r, "아티클 구독", "subscribe", data))
		return
	}

	if err := p.source.Subscribe(r.Context(), in); err != nil {
		status := http.StatusConflict
		if errors.Is(err, models.ErrAlreadySubscribed) {
			data["Error"] = msgAlreadySubscribed
		} else {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("subscribe")
			data["Error"] = msgSubscribeFailed
			status = http.StatusBadGateway
		}
		p.renderer.Page(w, r, status, "subscribe", p.page(r, "아티클 구독", "subscribe", data))
		return
	}

	zerolog.Ctx(r.Context()).Info().Msg("new subscription")
	p.renderer.Page(w, r, http.StatusOK, "subscribe", p.page(r, "구독 완료", "subscribe", map[string]any{"Success": true}))
}
