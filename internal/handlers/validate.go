// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hay-kot/criterio"

	"techblog/internal/models"
)

// Validation limits for form fields.
const (
	maxNameLen    = 40
	maxCommentLen = 2_000
	maxTitleLen   = 200
	maxBodyLen    = 100_000
	maxEmailLen   = 254
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func required(msg string, max int) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(msg)
		}
		if utf8.RuneCountInString(v) > max {
			return fmt.Errorf("%d자 이하로 입력해주세요.", max)
		}
		return nil
	}
}

func email(v string) error {
	if !emailPattern.MatchString(v) || len(v) > maxEmailLen {
		return errors.New("올바른 이메일 주소를 입력해주세요.")
	}
	return nil
}

func checked(msg string) func(bool) error {
	return func(v bool) error {
		if !v {
			return errors.New(msg)
		}
		return nil
	}
}

func optionalURL(v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("http 또는 https 주소를 입력해주세요.")
	}
	return nil
}

// validateComment checks a trimmed comment or reply submission.
func validateComment(in models.CommentInput) error {
	return criterio.ValidateStruct(
		criterio.Run("author", in.Author, required("이름을 입력해주세요.", maxNameLen)),
		criterio.Run("content", in.Content, required("내용을 입력해주세요.", maxCommentLen)),
	)
}

// validateSubscription checks the newsletter form, consent included.
func validateSubscription(in models.SubscribeInput, agreed bool) error {
	return criterio.ValidateStruct(
		criterio.Run("name", in.Name, required("이름을 입력해주세요.", maxNameLen)),
		criterio.Run("email", in.Email, email),
		criterio.Run("agreed", agreed, checked("개인정보 수집 및 이용에 동의해주세요.")),
	)
}

// validateDraft checks a create-article submission. The thumbnail is
// mandatory.
func validateDraft(d models.ArticleDraft, hasThumbnail bool) error {
	var errs criterio.FieldErrorsBuilder
	if err := required("제목을 입력해주세요.", maxTitleLen)(d.Title); err != nil {
		errs = errs.Append("title", err)
	}
	if !d.Category.Valid() {
		errs = errs.Append("category", errors.New("카테고리를 선택해주세요."))
	}
	if len(d.AuthorIDs) == 0 {
		errs = errs.Append("authorIds", errors.New("작성자를 한 명 이상 선택해주세요."))
	}
	if err := required("내용을 입력해주세요.", maxBodyLen)(d.Content); err != nil {
		errs = errs.Append("content", err)
	}
	if !hasThumbnail {
		errs = errs.Append("thumbnail", errors.New("썸네일 이미지를 선택해주세요."))
	}
	return errs.ToError()
}

// validateProfile checks the profile edit form.
func validateProfile(in models.ProfileUpdate) error {
	return criterio.ValidateStruct(
		criterio.Run("name", in.Name, required("이름을 입력해주세요.", maxNameLen)),
		criterio.Run("profileImage", in.ProfileImage, optionalURL),
	)
}

// fieldMessages flattens validation errors into the per-field messages
// the templates show. The first message for a field wins.
func fieldMessages(err error) map[string]string {
	out := map[string]string{}
	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		out[""] = err.Error()
		return out
	}
	for _, e := range fe {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Err.Error()
		}
	}
	return out
}

// firstMessage picks the message of the first listed field that failed.
func firstMessage(msgs map[string]string, fields ...string) string {
	for _, f := range fields {
		if m, ok := msgs[f]; ok {
			return m
		}
	}
	for _, m := range msgs {
		return m
	}
	return ""
}
