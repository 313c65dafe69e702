// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"techblog/internal/backend"
	"techblog/internal/cache"
	"techblog/internal/editor"
	"techblog/internal/imaging"
	"techblog/internal/models"
	"techblog/internal/render"
)

const (
	// dashboardArticles is how many recent articles the overview lists.
	dashboardArticles = 6

	// thumbnailWidth is the widest thumbnail sent to the backend.
	thumbnailWidth = 1200

	// maxUploadMemory bounds the multipart form held in memory.
	maxUploadMemory = editor.MaxImageBytes + 1<<20

	msgCreateFailed   = "글 작성에 실패했습니다."
	msgActivateFailed = "인증에 실패했습니다. 토큰을 확인해주세요."
	msgProfileSaved   = "프로필이 저장되었습니다."
	msgProfileFailed  = "프로필 저장에 실패했습니다."
)

// Dashboard groups the member area handlers. Every route requires a
// credential pair; the backend decides what the member may do.
type Dashboard struct {
	*Site
	members   Members
	images    *editor.ImageInserter
	pageCache *cache.PageCache
}

// NewDashboard creates a new Dashboard handler group. images stores
// pictures dropped into the editor; pageCache may be nil.
func NewDashboard(site *Site, members Members, images *editor.ImageInserter, pageCache *cache.PageCache) *Dashboard {
	return &Dashboard{Site: site, members: members, images: images, pageCache: pageCache}
}

// Overview shows the member's recent articles and totals, or the
// activation form for members who have not activated yet.
func (d *Dashboard) Overview(w http.ResponseWriter, r *http.Request) {
	me, err := d.members.CurrentMember(r.Context())
	if err != nil {
		d.fail(w, r, err)
		return
	}
	d.renderOverview(w, r, http.StatusOK, me, nil)
}

func (d *Dashboard) renderOverview(w http.ResponseWriter, r *http.Request, status int, me models.Member, flashes []render.Flash) {
	data := map[string]any{"Member": me}

	if me.Activated {
		list, err := d.members.MemberArticles(r.Context(), me.ID, 1, dashboardArticles)
		if err != nil {
			d.fail(w, r, err)
			return
		}
		// Views are summed over the listed page only, as the backend has no
		// aggregate endpoint.
		views := 0
		for _, a := range list.Items {
			views += a.Views
		}
		data["Articles"] = list.Items
		data["TotalCount"] = list.Pagination.TotalCount
		data["TotalViews"] = views
	}

	page := d.page(r, "대시보드", "dashboard", data)
	page.Flashes = flashes
	d.renderer.Page(w, r, status, "dashboard", page)
}

// Activate redeems the member's activation token.
func (d *Dashboard) Activate(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.FormValue("secretKey"))

	var err error
	if key == "" {
		err = errors.New("empty secret key")
	} else {
		_, err = d.members.ActivateMember(r.Context(), key)
	}
	if err == nil {
		zerolog.Ctx(r.Context()).Info().Msg("member activated")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if errors.Is(err, backend.ErrSessionExpired) {
		d.fail(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Warn().Err(err).Msg("activate member")
	me, merr := d.members.CurrentMember(r.Context())
	if merr != nil {
		d.fail(w, r, merr)
		return
	}
	d.renderOverview(w, r, http.StatusUnprocessableEntity, me, []render.Flash{{Type: "error", Message: msgActivateFailed}})
}

// WriteForm renders an empty draft with the member as first author.
func (d *Dashboard) WriteForm(w http.ResponseWriter, r *http.Request) {
	me, ok := d.activeMember(w, r)
	if !ok {
		return
	}
	d.renderWrite(w, r, http.StatusOK, models.ArticleDraft{
		Category:  models.CategoryDevelopment,
		AuthorIDs: []string{me.ID},
	}, nil, "")
}

// Write creates an article from the multipart form: the draft fields plus
// a mandatory thumbnail image.
func (d *Dashboard) Write(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		d.renderWrite(w, r, http.StatusBadRequest, models.ArticleDraft{}, nil, "요청을 읽을 수 없습니다.")
		return
	}

	draft := models.ArticleDraft{
		Title:     strings.TrimSpace(r.FormValue("title")),
		AuthorIDs: models.ParseTags(r.FormValue("authorIds")),
		Category:  models.Category(r.FormValue("category")),
		Tags:      models.ParseTags(r.FormValue("tags")),
		Content:   r.FormValue("content"),
	}

	thumb, thumbErr := readThumbnail(r)
	errs := map[string]string{}
	if err := validateDraft(draft, thumbErr == nil); err != nil {
		errs = fieldMessages(err)
	}
	if thumbErr != nil && !errors.Is(thumbErr, http.ErrMissingFile) {
		errs["thumbnail"] = "이미지 파일만 업로드할 수 있습니다."
	}
	if len(errs) > 0 {
		d.renderWrite(w, r, http.StatusUnprocessableEntity, draft, errs, "")
		return
	}

	article, err := d.members.CreateArticle(r.Context(), draft, thumb)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			d.fail(w, r, err)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("title", draft.Title).Msg("create article")
		d.renderWrite(w, r, http.StatusBadGateway, draft, nil, msgCreateFailed)
		return
	}

	d.pageCache.InvalidateListings(r.Context())
	zerolog.Ctx(r.Context()).Info().Str("article", article.ID).Msg("article created")
	http.Redirect(w, r, "/article/"+article.ID, http.StatusSeeOther)
}

// renderWrite keeps the editor key of a resubmitted form so an image
// upload still running for it shows the image control disabled.
func (d *Dashboard) renderWrite(w http.ResponseWriter, r *http.Request, status int, draft models.ArticleDraft, errs map[string]string, msg string) {
	key := r.FormValue("editorKey")
	if key == "" {
		key = uuid.NewString()
	}
	d.renderer.Page(w, r, status, "write", d.page(r, "글 작성", "dashboard", map[string]any{
		"Draft":     draft,
		"Errors":    errs,
		"Error":     msg,
		"EditorKey": key,
		"ImageBusy": d.images.Busy(imageKey(r, key)),
	}))
}

// readThumbnail loads the thumbnail part, checks that it decodes as an
// image within the size limit and scales wide pictures down.
func readThumbnail(r *http.Request) (backend.File, error) {
	f, hdr, err := r.FormFile("thumbnail")
	if err != nil {
		return backend.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, editor.MaxImageBytes+1))
	if err != nil {
		return backend.File{}, fmt.Errorf("read thumbnail: %w", err)
	}
	if len(data) > editor.MaxImageBytes {
		return backend.File{}, imaging.ErrTooLarge
	}
	scaled, info, err := imaging.Fit(data, thumbnailWidth)
	if err != nil {
		return backend.File{}, err
	}
	name := hdr.Filename
	if !bytes.Equal(scaled, data) {
		name = strings.TrimSuffix(name, path.Ext(name)) + "." + info.Format
	}
	return backend.File{Name: name, ContentType: info.ContentType, Data: scaled}, nil
}

// ProfileForm renders the profile editor.
func (d *Dashboard) ProfileForm(w http.ResponseWriter, r *http.Request) {
	me, err := d.members.CurrentMember(r.Context())
	if err != nil {
		d.fail(w, r, err)
		return
	}
	d.renderProfile(w, r, http.StatusOK, me, nil, nil)
}

// Profile saves the profile form.
func (d *Dashboard) Profile(w http.ResponseWriter, r *http.Request) {
	in := models.ProfileUpdate{
		Name:         strings.TrimSpace(r.FormValue("name")),
		ProfileImage: strings.TrimSpace(r.FormValue("profileImage")),
	}
	form := models.Member{Name: in.Name, ProfileImage: in.ProfileImage}

	if err := validateProfile(in); err != nil {
		d.renderProfile(w, r, http.StatusUnprocessableEntity, form, fieldMessages(err), nil)
		return
	}

	me, err := d.members.UpdateProfile(r.Context(), in)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			d.fail(w, r, err)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("update profile")
		d.renderProfile(w, r, http.StatusBadGateway, form, nil, []render.Flash{{Type: "error", Message: msgProfileFailed}})
		return
	}
	d.renderProfile(w, r, http.StatusOK, me, nil, []render.Flash{{Type: "success", Message: msgProfileSaved}})
}

func (d *Dashboard) renderProfile(w http.ResponseWriter, r *http.Request, status int, me models.Member, errs map[string]string, flashes []render.Flash) {
	page := d.page(r, "내 정보 수정", "dashboard", map[string]any{
		"Member": me,
		"Errors": errs,
	})
	page.Flashes = flashes
	d.renderer.Page(w, r, status, "profile", page)
}

// activeMember loads the member and sends members who still need to
// activate back to the overview.
func (d *Dashboard) activeMember(w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	me, err := d.members.CurrentMember(r.Context())
	if err != nil {
		d.fail(w, r, err)
		return models.Member{}, false
	}
	if !me.Activated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return models.Member{}, false
	}
	return me, true
}
