// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package offline serves the blog from an in-memory catalog seeded with
// sample content. It backs CONTENT_SOURCE=memory and provides the seed
// data for the PostgreSQL source.
package offline

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"techblog/internal/models"
)

//go:embed sample.yaml
var sampleYAML []byte

// Catalog is the sample content set.
type Catalog struct {
	Authors  []SampleAuthor  `yaml:"authors"`
	Articles []SampleArticle `yaml:"articles"`
}

// SampleAuthor is a member entry of the catalog.
type SampleAuthor struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	Activated bool   `yaml:"activated"`
	Grade     int    `yaml:"grade"`
	Room      int    `yaml:"room"`
	Number    int    `yaml:"number"`
}

// SampleArticle is an article entry of the catalog. Authors holds member IDs.
type SampleArticle struct {
	ID        string          `yaml:"id"`
	Title     string          `yaml:"title"`
	Category  string          `yaml:"category"`
	Authors   []string        `yaml:"authors"`
	Tags      []string        `yaml:"tags"`
	Thumbnail string          `yaml:"thumbnail"`
	Views     int             `yaml:"views"`
	CreatedAt string          `yaml:"created_at"`
	Content   string          `yaml:"content"`
	Comments  []SampleComment `yaml:"comments"`
}

// SampleComment is a comment entry; Replies nest one level.
type SampleComment struct {
	ID        string          `yaml:"id"`
	Author    string          `yaml:"author"`
	Content   string          `yaml:"content"`
	CreatedAt string          `yaml:"created_at"`
	Replies   []SampleComment `yaml:"replies"`
}

// LoadSample parses the embedded catalog.
func LoadSample() (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(sampleYAML, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse sample catalog: %w", err)
	}
	return c, nil
}

// Member converts the entry to the canonical model.
func (a SampleAuthor) Member() models.Member {
	return models.Member{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      models.Role(a.Role),
		Activated: a.Activated,
		Grade:     a.Grade,
		Room:      a.Room,
		Number:    a.Number,
	}
}
