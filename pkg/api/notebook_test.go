package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	msgraph "github.com/jhoneill/MSGraphAPI"
)

func TestListNotebooksExpanded(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/notebooks", 200, jsonList(map[string]interface{}{
		"id":          "nb-1",
		"displayName": "Work",
		"sections": []map[string]string{
			{"id": "sec-1", "displayName": "General"},
		},
	}))

	notebooks, err := rec.client().ListNotebooks("wo", true)
	require.NoError(t, err)

	q := rec.requests[0].Query
	require.Contains(t, q, "startswith(tolower(displayName),'wo')")
	require.Contains(t, q, "$expand=sections")

	require.Len(t, notebooks, 1)
	require.Len(t, notebooks[0].Sections, 1)
	require.Same(t, notebooks[0], notebooks[0].Sections[0].Notebook)
}

// A name containing query metacharacters must not break the filter
// fragment on the wire.
func TestListNotebooksEscapesFilterTerm(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/notebooks", 200, jsonList())

	_, err := rec.client().ListNotebooks("R&D", false)
	require.NoError(t, err)
	require.Contains(t, rec.requests[0].Query, "'r%26d'")
	require.NotContains(t, rec.requests[0].Query, "&d'")
}

func TestListSectionsAttachesParent(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/notebooks/nb-1/sections", 200,
		jsonList(map[string]string{"id": "sec-1", "displayName": "General"}))

	nb := &msgraph.Notebook{ID: "nb-1", DisplayName: "Work"}
	nb.SectionsURL = rec.srv.URL + "/notebooks/nb-1/sections"

	sections, err := rec.client().ListSections(msgraph.ObjectHandle(nb), "")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Same(t, nb, sections[0].Notebook)
}

func TestListSectionsKeepsServerParent(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/notebooks/nb-1/sections", 200, jsonList(map[string]interface{}{
		"id":             "sec-1",
		"displayName":    "General",
		"parentNotebook": map[string]string{"id": "nb-other"},
	}))

	nb := &msgraph.Notebook{ID: "nb-1"}
	nb.SectionsURL = rec.srv.URL + "/notebooks/nb-1/sections"

	sections, err := rec.client().ListSections(msgraph.ObjectHandle(nb), "")
	require.NoError(t, err)
	require.Equal(t, "nb-other", sections[0].Notebook.ID)
}

func TestListSectionsByName(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/sections", 200, jsonList())

	_, err := rec.client().ListSections(msgraph.NameHandle("Notes"), "")
	require.NoError(t, err)
	require.Contains(t, rec.requests[0].Query, "startswith(tolower(displayName),'notes')")
}

func TestCreateSection(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("POST", "/notebooks/nb-1/sections", 201,
		`{"id":"sec-9","displayName":"Meetings"}`)

	nb := &msgraph.Notebook{ID: "nb-1", DisplayName: "Work"}
	nb.SectionsURL = rec.srv.URL + "/notebooks/nb-1/sections"

	sec, err := rec.client().CreateSection(msgraph.ObjectHandle(nb), "Meetings")
	require.NoError(t, err)
	require.Equal(t, "sec-9", sec.ID)
	require.Same(t, nb, sec.Notebook)

	require.Contains(t, string(rec.requests[0].Body), `"displayName":"Meetings"`)
}

// Without a target there is nothing to create in, and no request goes
// out.
func TestCreateSectionMissingTarget(t *testing.T) {
	rec := newRecorder(t)

	_, err := rec.client().CreateSection(msgraph.Handle{}, "Meetings")
	require.Error(t, err)
	require.True(t, msgraph.IsMissingTarget(err))
	require.Empty(t, rec.calls())
}

// A display-name target is looked up first so the create lands in a
// concrete notebook's collection.
func TestCreateSectionByName(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/me/onenote/notebooks", 200, jsonList(map[string]interface{}{
		"id":          "nb-1",
		"displayName": "Work",
		"sectionsUrl": rec.srv.URL + "/notebooks/nb-1/sections",
	}))
	rec.respond("POST", "/notebooks/nb-1/sections", 201,
		`{"id":"sec-9","displayName":"Meetings"}`)

	sec, err := rec.client().CreateSection(msgraph.NameHandle("Work"), "Meetings")
	require.NoError(t, err)
	require.Equal(t, "sec-9", sec.ID)
	require.Equal(t, []string{
		"GET /me/onenote/notebooks",
		"POST /notebooks/nb-1/sections",
	}, rec.calls())
}
