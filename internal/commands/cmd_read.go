// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"techblog/internal/models"
	"techblog/internal/search"
)

const searchPageSize = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(6)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type ReadCmd struct {
	flags *Flags

	style string
	width int
	page  int
}

// NewReadCmd creates the read and search commands.
func NewReadCmd(flags *Flags) *ReadCmd {
	return &ReadCmd{flags: flags}
}

// Register adds read and search to the application.
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "read",
			Usage:     "Render an article in the terminal",
			ArgsUsage: "<article-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "style",
					Usage:       "glamour style (auto, dark, light, notty, ascii)",
					Value:       "auto",
					Destination: &cmd.style,
				},
				&cli.IntFlag{
					Name:        "width",
					Usage:       "word wrap width",
					Value:       100,
					Destination: &cmd.width,
				},
			},
			Action: cmd.read,
		},
		&cli.Command{
			Name:      "search",
			Usage:     "Search articles by title, content or tag",
			ArgsUsage: "<query>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "page",
					Usage:       "result page",
					Value:       1,
					Destination: &cmd.page,
				},
			},
			Action: cmd.search,
		},
	)
	return app
}

func (cmd *ReadCmd) read(ctx context.Context, c *cli.Command) error {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return fmt.Errorf("usage: read <article-id>")
	}

	src, err := openContent(ctx, cmd.flags.Config, cmd.flags.Credentials())
	if err != nil {
		return err
	}
	defer src.Close()

	article, err := src.GetArticle(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("article %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	out, err := renderArticle(&article, cmd.style, cmd.width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.Root().Writer, out)
	return err
}

// renderArticle formats an article as terminal markdown.
func renderArticle(a *models.Article, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", a.Title)
	fmt.Fprintf(&md, "*%s · %s · %s · 조회 %d*\n\n", a.Category.Label(), a.AuthorNames(), a.CreatedAt, a.Views)
	if len(a.Tags) > 0 {
		fmt.Fprintf(&md, "`#%s`\n\n", strings.Join(a.Tags, "` `#"))
	}
	md.WriteString(a.Content)

	return r.Render(md.String())
}

func (cmd *ReadCmd) search(ctx context.Context, c *cli.Command) error {
	q := search.Prepare(strings.Join(c.Args().Slice(), " "))
	w := c.Root().Writer
	if q.TooShort {
		_, _ = fmt.Fprintln(w, warnStyle.Render(q.Hint))
		return nil
	}

	src, err := openContent(ctx, cmd.flags.Config, cmd.flags.Credentials())
	if err != nil {
		return err
	}
	defer src.Close()

	page, err := src.SearchArticles(ctx, q.Text, cmd.page, searchPageSize)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	printResults(w, page)
	return nil
}

func printResults(w io.Writer, page models.Page[models.Article]) {
	if len(page.Items) == 0 {
		_, _ = fmt.Fprintln(w, metaStyle.Render("검색 결과가 없습니다"))
		return
	}
	for i := range page.Items {
		a := &page.Items[i]
		_, _ = fmt.Fprintln(w, idStyle.Render(a.ID)+titleStyle.Render(a.Title))
		_, _ = fmt.Fprintln(w, idStyle.Render("")+metaStyle.Render(a.Category.Label()+" · "+a.AuthorNames()+" · "+a.CreatedAt))
	}
	p := page.Pagination
	_, _ = fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d/%d 페이지 · 총 %d건", p.Page, max(p.TotalPages, 1), p.TotalCount)))
}
