// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Role is the member's permission level as reported by the backend.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Member is a registered author. Author profile pages use the same shape.
type Member struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         Role   `json:"role,omitempty"`
	Activated    bool   `json:"activated"`
	Grade        int    `json:"grade,omitempty"`
	Room         int    `json:"room,omitempty"`
	Number       int    `json:"number,omitempty"`
}

// IsAdmin returns true if the member has the admin role.
func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// AsAuthor returns the byline form of the member.
func (m *Member) AsAuthor() Author {
	return Author{ID: m.ID, Name: m.Name}
}

// AuthInfo is the session identity reported by GET /auth/me.
type AuthInfo struct {
	Authenticated bool   `json:"authenticated"`
	MemberID      string `json:"memberId"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	Activated     bool   `json:"activated"`
	LoginURL      string `json:"loginUrl"`
}

// ProfileUpdate is the editable part of a member profile.
type ProfileUpdate struct {
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// SubscribeInput is a newsletter subscription request.
type SubscribeInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
