// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/offline"
	"techblog/internal/render"
	"techblog/internal/search"
)

func TestHomeListsArticlesAndSidebar(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Home, http.MethodGet, "/", get("/"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Go로 작성하는 BFF 서버")
	assert.Contains(t, body, "쿠버네티스 롤링 업데이트 정리")
	assert.Contains(t, body, "지금 인기 글")
	assert.Contains(t, body, "#Valkey")
}

func TestCategoryFilters(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Category, http.MethodGet, "/{category}", get("/infra"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	listing := rr.Body.String()
	listing = listing[:strings.Index(listing, `class="sidebar"`)]
	assert.Contains(t, listing, "쿠버네티스 롤링 업데이트 정리")
	assert.NotContains(t, listing, "Go로 작성하는 BFF 서버")
}

func TestCategoryUnknownIsNotFound(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Category, http.MethodGet, "/{category}", get("/cooking"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "요청하신 페이지가 존재하지 않습니다.")
}

func TestArticleRendersCommentTree(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Article, http.MethodGet, "/article/{id}", get("/article/1"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<h1>Go로 작성하는 BFF 서버</h1>")
	assert.Contains(t, body, `id="comment-2"`)
	assert.Contains(t, body, "margin-left: 24px")
	assert.Contains(t, body, `action="/article/1/comments"`)
}

func TestArticleNotFound(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Article, http.MethodGet, "/article/{id}", get("/article/999"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateCommentRedirectsAndShows(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.CreateComment, http.MethodPost, "/article/{id}/comments",
		postForm("/article/3/comments", "author=+%EB%8F%84%EC%9C%A4+&content=%EC%A2%8B%EC%9D%80+%EA%B8%80"), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/article/3#comments", rr.Header().Get("Location"))

	rr = serve(t, p.Article, http.MethodGet, "/article/{id}", get("/article/3"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<strong>도윤</strong>")
	assert.Contains(t, rr.Body.String(), "좋은 글")
}

func TestCreateCommentValidation(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.CreateComment, http.MethodPost, "/article/{id}/comments",
		postForm("/article/1/comments", "author=+++&content=hello"), nil)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "이름을 입력해주세요.")
	assert.Contains(t, body, ">hello</textarea>")
}

func TestCreateReply(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.CreateReply, http.MethodPost, "/article/{id}/comments/{commentID}/replies",
		postForm("/article/1/comments/3/replies", "author=dev&content=reply+here"), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/article/1#comment-3", rr.Header().Get("Location"))

	rr = serve(t, p.Article, http.MethodGet, "/article/{id}", get("/article/1"), nil)
	assert.Contains(t, rr.Body.String(), "reply here")
}

func TestCreateReplyToReplyIsNotFound(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.CreateReply, http.MethodPost, "/article/{id}/comments/{commentID}/replies",
		postForm("/article/1/comments/2/replies", "author=dev&content=nested"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReplyValidationOpensReplyForm(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.CreateReply, http.MethodPost, "/article/{id}/comments/{commentID}/replies",
		postForm("/article/1/comments/1/replies", "author=dev&content="), nil)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "내용을 입력해주세요.")
	assert.Contains(t, rr.Body.String(), "<details open>")
}

func TestAuthorPage(t *testing.T) {
	p := testPublic(t)

	rr := serve(t, p.Author, http.MethodGet, "/author/{id}", get("/author/m-1001"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Go로 작성하는 BFF 서버")

	rr = serve(t, p.Author, http.MethodGet, "/author/{id}", get("/author/nobody"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSearchShortQueryShowsHint(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Search, http.MethodGet, "/search", get("/search?q=+a+"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "2글자 이상 입력해주세요")
}

func TestSearchFindsArticles(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Search, http.MethodGet, "/search", get("/search?q=valkey"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Valkey로 페이지 캐시 만들기")
}

func TestLiveSearchFragment(t *testing.T) {
	p := testPublic(t)
	req := get("/search/live?q=valkey")
	req.Header.Set(render.FragmentHeader, "true")

	rr := serve(t, p.LiveSearch, http.MethodGet, "/search/live", req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Valkey로 페이지 캐시 만들기")
}

func TestLiveSearchSupersededBurst(t *testing.T) {
	src, err := offline.NewSample()
	require.NoError(t, err)
	p := NewPublic(NewSite(testRenderer(t), nil), src, nil, search.NewDebouncer(100*time.Millisecond))

	var (
		wg    sync.WaitGroup
		first *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = serve(t, p.LiveSearch, http.MethodGet, "/search/live", get("/search/live?q=va"), nil)
	}()
	time.Sleep(20 * time.Millisecond)
	last := serve(t, p.LiveSearch, http.MethodGet, "/search/live", get("/search/live?q=valkey"), nil)
	wg.Wait()

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusOK, last.Code)
	assert.Contains(t, last.Body.String(), "Valkey로 페이지 캐시 만들기")
}

func TestLiveSearchShortQueryCancelsPending(t *testing.T) {
	src, err := offline.NewSample()
	require.NoError(t, err)
	p := NewPublic(NewSite(testRenderer(t), nil), src, nil, search.NewDebouncer(100*time.Millisecond))

	var (
		wg    sync.WaitGroup
		first *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = serve(t, p.LiveSearch, http.MethodGet, "/search/live", get("/search/live?q=va"), nil)
	}()
	time.Sleep(20 * time.Millisecond)
	last := serve(t, p.LiveSearch, http.MethodGet, "/search/live", get("/search/live?q=v"), nil)
	wg.Wait()

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusOK, last.Code)
	assert.Contains(t, last.Body.String(), "2글자 이상 입력해주세요")
}

func TestSubscribeValidation(t *testing.T) {
	p := testPublic(t)
	rr := serve(t, p.Subscribe, http.MethodPost, "/subscribe", postForm("/subscribe", "name=&email=not-an-email"), nil)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "이름을 입력해주세요.")
	assert.Contains(t, body, "올바른 이메일 주소를 입력해주세요.")
	assert.Contains(t, body, "개인정보 수집 및 이용에 동의해주세요.")
	assert.Contains(t, body, `value="not-an-email"`)
}

func TestSubscribeThenDuplicate(t *testing.T) {
	p := testPublic(t)
	form := "name=%ED%99%8D%EA%B8%B8%EB%8F%99&email=reader%40example.com&agreed=on"

	rr := serve(t, p.Subscribe, http.MethodPost, "/subscribe", postForm("/subscribe", form), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "구독 완료!")

	rr = serve(t, p.Subscribe, http.MethodPost, "/subscribe", postForm("/subscribe", form), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), msgAlreadySubscribed)
}

func TestNotFoundPage(t *testing.T) {
	p := testPublic(t)
	rr := httptest.NewRecorder()
	p.NotFound(rr, get("/nowhere"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWithToken(t *testing.T) {
	html := []byte(`<meta content="` + csrfPlaceholder + `"><input value="` + csrfPlaceholder + `">`)
	assert.Equal(t, `<meta content="abc"><input value="abc">`, string(withToken(html, "abc")))
}
