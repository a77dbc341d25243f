package api

import (
	"encoding/json"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// ContentMode selects what a page fetch returns.
type ContentMode int

const (
	// ModeMetadata returns the page record without content.
	ModeMetadata ContentMode = iota
	// ModeContent returns the rendered HTML content.
	ModeContent
	// ModeContentWithIDs returns HTML annotated with stable element IDs
	// for later partial updates.
	ModeContentWithIDs
)

// ContentModeFor maps the two request flags to a mode. The annotated
// mode wins when both flags are set.
func ContentModeFor(content, withIDs bool) ContentMode {
	switch {
	case withIDs:
		return ModeContentWithIDs
	case content:
		return ModeContent
	}
	return ModeMetadata
}

// ConfirmFunc decides whether a mutating operation on the named page may
// proceed. A nil ConfirmFunc means no confirmation is required.
type ConfirmFunc func(title string) bool

// ListPages retrieves the pages addressed by the target handle: a
// section's pages collection, or the user's pages filtered by title.
// The optional name argument narrows the result further.
func (c *Client) ListPages(target msgraph.Handle, name string) ([]*msgraph.Page, error) {
	path, query, err := c.resolverFor(msgraph.SectionPages).Resolve(target, msgraph.SectionPages)
	if err != nil {
		return nil, err
	}
	if name != "" {
		query = msgraph.JoinQuery(query, "$filter="+msgraph.PrefixFilter("title", name))
	}

	out := make([]*msgraph.Page, 0)
	err = c.list(path, query, func(raw json.RawMessage) error {
		var batch []*msgraph.Page
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("List pages returned %d items", len(out))

	if sec, ok := target.Object().(*msgraph.Section); ok {
		msgraph.AttachSection(out, sec)
	}
	return out, nil
}

// GetPage retrieves page metadata for the given target. A display-name
// handle is matched as a title prefix against the user's pages and must
// select at least one page.
func (c *Client) GetPage(target msgraph.Handle) (*msgraph.Page, error) {
	if target.IsZero() {
		return nil, msgraph.NewMissingTarget("no page specified")
	}

	if target.IsName() {
		pages, err := c.ListPages(target, "")
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			return nil, msgraph.NewNotFound("no page matching %v", target)
		}
		if len(pages) > 1 {
			logging.Warning("%v matches %d pages, using %q", target, len(pages), pages[0].Title)
		}
		return pages[0], nil
	}

	path, _, err := c.resolverFor(msgraph.ItemSelf).Resolve(target, msgraph.ItemSelf)
	if err != nil {
		return nil, err
	}
	var p msgraph.Page
	if err := c.do("GET", path, "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPageContent retrieves a page in the requested mode. For
// ModeMetadata the page record is returned with empty content;
// otherwise Content carries the HTML.
func (c *Client) GetPageContent(target msgraph.Handle, mode ContentMode) (*msgraph.Page, error) {
	page, err := c.GetPage(target)
	if err != nil {
		return nil, err
	}
	if mode == ModeMetadata {
		return page, nil
	}

	cap := msgraph.PageContent
	if mode == ModeContentWithIDs {
		cap = msgraph.PageContentWithIDs
	}
	path, query, err := c.resolverFor(cap).Resolve(msgraph.ObjectHandle(page), cap)
	if err != nil {
		return nil, err
	}

	data, err := c.doRaw("GET", path, query, "", nil)
	if err != nil {
		return nil, err
	}
	page.Content = string(data)
	return page, nil
}

// CreatePage adds a page built from a full HTML document to the section
// addressed by target. The page title comes from the document's <title>
// element. An empty target falls back to the configured default
// section; without one the operation fails before any request.
func (c *Client) CreatePage(target msgraph.Handle, doc string) (*msgraph.Page, error) {
	return c.createPage(target, []byte(doc), "text/html")
}

// CreatePageWithAttachment adds a page carrying one embedded file. The
// request body is multipart: HTML presentation part first, then the
// binary part.
func (c *Client) CreatePageWithAttachment(target msgraph.Handle, title string, a msgraph.Attachment) (*msgraph.Page, error) {
	body, contentType, err := msgraph.BuildMultipart(title, a)
	if err != nil {
		return nil, err
	}
	return c.createPage(target, body, contentType)
}

func (c *Client) createPage(target msgraph.Handle, body []byte, contentType string) (*msgraph.Page, error) {
	target, err := c.pagesTarget(target)
	if err != nil {
		return nil, err
	}

	var sec *msgraph.Section
	if target.IsName() {
		sec, err = c.findSection(target)
		if err != nil {
			return nil, err
		}
		target = msgraph.ObjectHandle(sec)
	} else if s, ok := target.Object().(*msgraph.Section); ok {
		sec = s
	}

	path, _, err := c.resolverFor(msgraph.SectionPages).Resolve(target, msgraph.SectionPages)
	if err != nil {
		return nil, err
	}

	data, err := c.doRaw("POST", path, "", contentType, body)
	if err != nil {
		return nil, err
	}

	var page msgraph.Page
	if len(data) != 0 {
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, msgraph.Wrap(err, "failed to read create-page response")
		}
	}
	if sec != nil {
		msgraph.AttachSection([]*msgraph.Page{&page}, sec)
	}
	return &page, nil
}

// UpdatePage applies partial updates to the page addressed by target.
// The page is fetched first: a 404 surfaces as a "not found" error with
// no PATCH issued, any other fetch failure is returned as-is. The
// confirm callback, when set, sees the fetched title; a veto surfaces
// as a "skipped" error with no PATCH issued.
func (c *Client) UpdatePage(target msgraph.Handle, cmds []msgraph.PatchCommand, confirm ConfirmFunc) error {
	if len(cmds) == 0 {
		return msgraph.NewValidationError("no patch commands given")
	}
	for _, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return err
		}
	}

	page, err := c.GetPage(target)
	if err != nil {
		return err
	}

	if confirm != nil && !confirm(page.Title) {
		return msgraph.NewSkipped("update of page %q not confirmed", page.Title)
	}

	path, _, err := c.resolverFor(msgraph.PageContent).Resolve(msgraph.ObjectHandle(page), msgraph.PageContent)
	if err != nil {
		return err
	}
	return c.do("PATCH", path, "", cmds, nil)
}

// DeletePage removes the page addressed by target. The page is fetched
// first: a 404 surfaces as a "not found" error so callers can treat the
// page as already deleted; no DELETE is issued in that case. The
// confirm callback, when set, may veto the delete; a veto surfaces as a
// "skipped" error with no DELETE issued.
func (c *Client) DeletePage(target msgraph.Handle, confirm ConfirmFunc) error {
	page, err := c.GetPage(target)
	if err != nil {
		return err
	}

	if confirm != nil && !confirm(page.Title) {
		return msgraph.NewSkipped("delete of page %q not confirmed", page.Title)
	}

	path, _, err := c.resolverFor(msgraph.ItemSelf).Resolve(msgraph.ObjectHandle(page), msgraph.ItemSelf)
	if err != nil {
		return err
	}
	return c.do("DELETE", path, "", nil, nil)
}

// pagesTarget substitutes the configured default section for an empty
// target.
func (c *Client) pagesTarget(target msgraph.Handle) (msgraph.Handle, error) {
	if !target.IsZero() {
		return target, nil
	}
	if c.DefaultSection == "" {
		return msgraph.Handle{}, msgraph.NewMissingTarget("no section specified and no default section configured")
	}
	logging.Debug("using default section %q", c.DefaultSection)
	return msgraph.ParseHandle(c.DefaultSection), nil
}

// findSection resolves a display-name handle to a single section.
func (c *Client) findSection(target msgraph.Handle) (*msgraph.Section, error) {
	sections, err := c.ListSections(target, "")
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, msgraph.NewNotFound("no section matching %v", target)
	}
	if len(sections) > 1 {
		logging.Warning("%v matches %d sections, using %q", target, len(sections), sections[0].DisplayName)
	}
	return sections[0], nil
}
