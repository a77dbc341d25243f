package api

import (
	"encoding/json"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// ListNotebooks retrieves the notebooks of the signed-in user,
// optionally narrowed to display names starting with name. With expand
// set, each notebook carries its sections, and each section its parent
// back-reference.
func (c *Client) ListNotebooks(name string, expand bool) ([]*msgraph.Notebook, error) {
	fragments := make([]string, 0, 2)
	if name != "" {
		fragments = append(fragments, "$filter="+msgraph.PrefixFilter("displayName", name))
	}
	if expand {
		fragments = append(fragments, "$expand=sections")
	}
	query := msgraph.JoinQuery(fragments...)

	out := make([]*msgraph.Notebook, 0)
	err := c.list(epNotebooks, query, func(raw json.RawMessage) error {
		var batch []*msgraph.Notebook
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("List notebooks returned %d items", len(out))

	// sections fetched via expansion lack the parent reference
	for _, nb := range out {
		msgraph.AttachNotebook(nb.Sections, nb)
	}
	return out, nil
}

// GetNotebook retrieves a single notebook by ID.
func (c *Client) GetNotebook(id string) (*msgraph.Notebook, error) {
	if id == "" {
		return nil, msgraph.NewMissingTarget("notebook id must not be empty")
	}
	var nb msgraph.Notebook
	if err := c.do("GET", epNotebooks+"/"+id, "", nil, &nb); err != nil {
		return nil, err
	}
	return &nb, nil
}

// ListSections retrieves the sections addressed by the target handle: a
// notebook's sections collection, or the user's sections filtered by
// display name. The optional name argument narrows the result further.
//
// When the target was a notebook object, the returned sections carry it
// as their parent back-reference unless the server already supplied a
// richer one.
func (c *Client) ListSections(target msgraph.Handle, name string) ([]*msgraph.Section, error) {
	path, query, err := c.resolverFor(msgraph.NotebookSections).Resolve(target, msgraph.NotebookSections)
	if err != nil {
		return nil, err
	}
	if name != "" {
		query = msgraph.JoinQuery(query, "$filter="+msgraph.PrefixFilter("displayName", name))
	}

	out := make([]*msgraph.Section, 0)
	err = c.list(path, query, func(raw json.RawMessage) error {
		var batch []*msgraph.Section
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("List sections returned %d items", len(out))

	if nb, ok := target.Object().(*msgraph.Notebook); ok {
		msgraph.AttachNotebook(out, nb)
	}
	return out, nil
}

// CreateSection adds a section with the given display name to the
// notebook addressed by target. A target is mandatory here; an empty
// handle fails before any request is made.
func (c *Client) CreateSection(target msgraph.Handle, displayName string) (*msgraph.Section, error) {
	if target.IsZero() {
		return nil, msgraph.NewMissingTarget("a notebook is required to create a section")
	}
	if displayName == "" {
		return nil, msgraph.NewValidationError("section name must not be empty")
	}

	if target.IsName() {
		// look up the notebook so the create goes to one collection
		nb, err := c.findNotebook(target)
		if err != nil {
			return nil, err
		}
		target = msgraph.ObjectHandle(nb)
	}

	path, _, err := c.resolverFor(msgraph.NotebookSections).Resolve(target, msgraph.NotebookSections)
	if err != nil {
		return nil, err
	}

	payload := struct {
		DisplayName string `json:"displayName"`
	}{displayName}

	var sec msgraph.Section
	if err := c.do("POST", path, "", payload, &sec); err != nil {
		return nil, err
	}

	if nb, ok := target.Object().(*msgraph.Notebook); ok {
		msgraph.AttachNotebook([]*msgraph.Section{&sec}, nb)
	}
	return &sec, nil
}

// findNotebook resolves a display-name handle to a single notebook.
func (c *Client) findNotebook(target msgraph.Handle) (*msgraph.Notebook, error) {
	notebooks, err := c.ListNotebooks(target.Name(), false)
	if err != nil {
		return nil, err
	}
	if len(notebooks) == 0 {
		return nil, msgraph.NewNotFound("no notebook matching %v", target)
	}
	if len(notebooks) > 1 {
		logging.Warning("%v matches %d notebooks, using %q", target, len(notebooks), notebooks[0].DisplayName)
	}
	return notebooks[0], nil
}
