package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	msgraph "github.com/jhoneill/MSGraphAPI"
)

func pageJSON(rec *recorder, id, title string) string {
	p := map[string]string{
		"id":         id,
		"title":      title,
		"self":       rec.srv.URL + "/me/onenote/pages/" + id,
		"contentUrl": rec.srv.URL + "/me/onenote/pages/" + id + "/content",
	}
	data, _ := json.Marshal(p)
	return string(data)
}

// A 404 on the pre-fetch must surface as a not-found error and no
// DELETE may be issued.
func TestDeletePageGone(t *testing.T) {
	rec := newRecorder(t)
	// nothing scripted: every request answers 404

	err := rec.client().DeletePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), nil)
	require.True(t, msgraph.IsNotFound(err))

	require.Equal(t, []string{"GET /me/onenote/pages/p-1"}, rec.calls())
}

// Same rule for update: a 404 pre-fetch means no PATCH goes out.
func TestUpdatePageGone(t *testing.T) {
	rec := newRecorder(t)

	cmds := []msgraph.PatchCommand{msgraph.NewPatchCommand("", msgraph.ActionAppend, "<p>x</p>")}
	err := rec.client().UpdatePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), cmds, nil)
	require.True(t, msgraph.IsNotFound(err))

	require.Equal(t, []string{"GET /me/onenote/pages/p-1"}, rec.calls())
}

func TestUpdatePage(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/pages/p-1", 200, pageJSON(rec, "p-1", "Demo"))
	rec.respond("PATCH", "/me/onenote/pages/p-1/content", 204, "")

	cmds := []msgraph.PatchCommand{msgraph.NewPatchCommand("", msgraph.ActionAppend, "<p>x</p>")}
	err := rec.client().UpdatePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), cmds, nil)
	require.NoError(t, err)

	require.Equal(t, []string{
		"GET /me/onenote/pages/p-1",
		"PATCH /me/onenote/pages/p-1/content",
	}, rec.calls())

	var sent []msgraph.PatchCommand
	require.NoError(t, json.Unmarshal(rec.requests[1].Body, &sent))
	require.Len(t, sent, 1)
	require.Equal(t, "body", sent[0].Target)
	require.Equal(t, msgraph.ActionAppend, sent[0].Action)
}

func TestUpdatePageInvalidCommand(t *testing.T) {
	rec := newRecorder(t)

	cmds := []msgraph.PatchCommand{msgraph.NewPatchCommand("", "erase", "x")}
	err := rec.client().UpdatePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), cmds, nil)
	require.Error(t, err)

	// validation failures never reach the network
	require.Empty(t, rec.calls())
}

func TestDeletePage(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/pages/p-1", 200, pageJSON(rec, "p-1", "Demo"))
	rec.respond("DELETE", "/me/onenote/pages/p-1", 204, "")

	var asked string
	confirm := func(title string) bool {
		asked = title
		return true
	}

	err := rec.client().DeletePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), confirm)
	require.NoError(t, err)
	require.Equal(t, "Demo", asked)
	require.Equal(t, []string{
		"GET /me/onenote/pages/p-1",
		"DELETE /me/onenote/pages/p-1",
	}, rec.calls())
}

// A vetoing confirm callback stops the delete after the pre-fetch. The
// veto must be visible to the caller as a "skipped" error, never as a
// clean success.
func TestDeletePageVetoed(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/pages/p-1", 200, pageJSON(rec, "p-1", "Demo"))

	confirm := func(string) bool { return false }
	err := rec.client().DeletePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), confirm)
	require.True(t, msgraph.IsSkipped(err))
	require.Equal(t, []string{"GET /me/onenote/pages/p-1"}, rec.calls())
}

func TestUpdatePageVetoed(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/pages/p-1", 200, pageJSON(rec, "p-1", "Demo"))

	cmds := []msgraph.PatchCommand{msgraph.NewPatchCommand("", msgraph.ActionAppend, "<p>x</p>")}
	confirm := func(string) bool { return false }
	err := rec.client().UpdatePage(msgraph.LinkHandle(rec.srv.URL+"/me/onenote/pages/p-1"), cmds, confirm)
	require.True(t, msgraph.IsSkipped(err))
	require.Equal(t, []string{"GET /me/onenote/pages/p-1"}, rec.calls())
}

func TestGetPageContentModes(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/pages/p-1", 200, pageJSON(rec, "p-1", "Demo"))
	rec.respond("GET", "/me/onenote/pages/p-1/content", 200, "<html><body>hi</body></html>")

	c := rec.client()
	h := msgraph.LinkHandle(rec.srv.URL + "/me/onenote/pages/p-1")

	page, err := c.GetPageContent(h, ModeMetadata)
	require.NoError(t, err)
	require.Empty(t, page.Content)

	page, err = c.GetPageContent(h, ModeContent)
	require.NoError(t, err)
	require.Contains(t, page.Content, "hi")

	_, err = c.GetPageContent(h, ModeContentWithIDs)
	require.NoError(t, err)

	last := rec.requests[len(rec.requests)-1]
	require.Equal(t, "/me/onenote/pages/p-1/content", last.Path)
	require.Contains(t, last.Query, "includeIDs=true")
}

func TestContentModeFor(t *testing.T) {
	require.Equal(t, ModeMetadata, ContentModeFor(false, false))
	require.Equal(t, ModeContent, ContentModeFor(true, false))
	require.Equal(t, ModeContentWithIDs, ContentModeFor(false, true))
	// the annotated mode wins when both flags are set
	require.Equal(t, ModeContentWithIDs, ContentModeFor(true, true))
}

func TestCreatePage(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("POST", "/me/onenote/sections/s-1/pages", 201, pageJSON(rec, "p-9", "Demo"))

	sec := &msgraph.Section{
		ID:       "s-1",
		Self:     rec.srv.URL + "/me/onenote/sections/s-1",
		PagesURL: rec.srv.URL + "/me/onenote/sections/s-1/pages",
	}

	doc := msgraph.NewPageDocument("Demo", "<p>hello</p>")
	page, err := rec.client().CreatePage(msgraph.ObjectHandle(sec), doc)
	require.NoError(t, err)
	require.Equal(t, "p-9", page.ID)
	require.Equal(t, sec, page.Section)

	req := rec.requests[0]
	require.Equal(t, "text/html", req.Header.Get("Content-Type"))
	require.Contains(t, string(req.Body), "<title>Demo</title>")
}

func TestCreatePageNoTarget(t *testing.T) {
	rec := newRecorder(t)

	_, err := rec.client().CreatePage(msgraph.Handle{}, "<html></html>")
	require.True(t, msgraph.IsMissingTarget(err))
	require.Empty(t, rec.calls())
}

func TestCreatePageDefaultSection(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/sections", 200, jsonList(map[string]string{
		"id":          "s-1",
		"displayName": "General",
		"self":        rec.srv.URL + "/me/onenote/sections/s-1",
		"pagesUrl":    rec.srv.URL + "/me/onenote/sections/s-1/pages",
	}))
	rec.respond("POST", "/me/onenote/sections/s-1/pages", 201, pageJSON(rec, "p-9", "Demo"))

	c := rec.client()
	c.DefaultSection = "General"

	_, err := c.CreatePage(msgraph.Handle{}, msgraph.NewPageDocument("Demo", ""))
	require.NoError(t, err)

	calls := rec.calls()
	require.Equal(t, "GET /me/onenote/sections", calls[0])
	require.Equal(t, "POST /me/onenote/sections/s-1/pages", calls[1])
	require.Contains(t, rec.requests[0].Query, "startswith(tolower(displayName),'general')")
}

func TestCreatePageWithAttachment(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("POST", "/me/onenote/sections/s-1/pages", 201, pageJSON(rec, "p-9", "Demo"))

	sec := &msgraph.Section{PagesURL: rec.srv.URL + "/me/onenote/sections/s-1/pages"}
	a := msgraph.Attachment{Name: "photo.png", Data: []byte{1, 2, 3}}

	_, err := rec.client().CreatePageWithAttachment(msgraph.ObjectHandle(sec), "Demo", a)
	require.NoError(t, err)

	req := rec.requests[0]
	require.Contains(t, req.Header.Get("Content-Type"), "boundary="+msgraph.PartBoundary)
	require.Contains(t, string(req.Body), "--"+msgraph.PartBoundary)
}

func TestListPagesAttachesParent(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/sections/s-1/pages", 200,
		jsonList(map[string]string{"id": "p-1", "title": "One"}, map[string]string{"id": "p-2", "title": "Two"}))

	sec := &msgraph.Section{DisplayName: "General", PagesURL: rec.srv.URL + "/me/onenote/sections/s-1/pages"}
	pages, err := rec.client().ListPages(msgraph.ObjectHandle(sec), "")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	for _, p := range pages {
		require.Equal(t, sec, p.Section)
	}
}
