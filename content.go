package msgraph

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"regexp"
	"strings"
)

// PartBoundary is the fixed boundary token for multipart page bodies.
const PartBoundary = "MyAppPartBoundary"

// Names of the body parts in a multipart page create request.
// The presentation part always comes first.
const (
	presentationPart = "Presentation"
	fileBlockPart    = "fileBlock1"
)

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ExtractTitle returns the text of the first <title> element in an HTML
// document, or empty if there is none.
func ExtractTitle(doc string) string {
	m := titlePattern.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// NewPageDocument wraps a body fragment into a full HTML document with
// the given title. The title element is what names the created page.
func NewPageDocument(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

// Attachment is a binary file embedded into a new page.
type Attachment struct {
	// Name is the file name shown on the page.
	Name string
	// Data is the raw file content.
	Data []byte
	// MimeType overrides the type derived from the file extension.
	MimeType string
}

// ResolveMimeType returns the effective MIME type for the attachment:
// the explicit override if set, otherwise the type registered for the
// file extension. Returns an "ambiguous MIME type" error when neither
// yields a type.
func (a Attachment) ResolveMimeType() (string, error) {
	if a.MimeType != "" {
		return a.MimeType, nil
	}
	t := mime.TypeByExtension(filepath.Ext(a.Name))
	if t == "" {
		return "", NewAmbiguousMimeType("cannot determine MIME type for %q, specify one explicitly", a.Name)
	}
	// strip optional parameters such as "; charset=utf-8"
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t, nil
}

// BuildMultipart assembles the request body for a page with one file
// attachment: the HTML presentation part first, then the binary file
// part, separated by the fixed boundary token. Returns the body and its
// Content-Type header value.
//
// Image attachments are rendered inline with an <img> tag referencing
// the file part by name. Any other type is rendered as an embedded
// object reference plus a thumbnail image tag.
func BuildMultipart(title string, a Attachment) ([]byte, string, error) {
	mimeType, err := a.ResolveMimeType()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(PartBoundary); err != nil {
		return nil, "", err
	}

	body := attachmentHTML(a.Name, mimeType)
	doc := NewPageDocument(title, body)

	ph := textproto.MIMEHeader{}
	ph.Set("Content-Disposition", fmt.Sprintf("form-data; name=%q", presentationPart))
	ph.Set("Content-Type", "text/html")
	pw, err := w.CreatePart(ph)
	if err != nil {
		return nil, "", err
	}
	if _, err := pw.Write([]byte(doc)); err != nil {
		return nil, "", err
	}

	fh := textproto.MIMEHeader{}
	fh.Set("Content-Disposition", fmt.Sprintf("form-data; name=%q", fileBlockPart))
	fh.Set("Content-Type", mimeType)
	fw, err := w.CreatePart(fh)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(a.Data); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// attachmentHTML builds the body fragment that references the file part.
func attachmentHTML(name, mimeType string) string {
	alt := html.EscapeString(name)
	if strings.HasPrefix(mimeType, "image/") {
		return fmt.Sprintf(`<img src="name:%s" alt="%s"/>`, fileBlockPart, alt)
	}
	return fmt.Sprintf(`<object data-attachment="%s" data="name:%s" type="%s"></object>`+"\n"+
		`<img src="name:%s" alt="%s" height="150"/>`,
		alt, fileBlockPart, mimeType, fileBlockPart, alt)
}

// Actions for a partial page update.
type PatchAction string

const (
	ActionReplace PatchAction = "replace"
	ActionAppend  PatchAction = "append"
	ActionDelete  PatchAction = "delete"
	ActionInsert  PatchAction = "insert"
	ActionPrepend PatchAction = "prepend"
)

// Positions for insert-style actions.
type PatchPosition string

const (
	PositionBefore PatchPosition = "before"
	PositionAfter  PatchPosition = "after"
)

// defaultPatchTarget addresses the whole page body.
const defaultPatchTarget = "body"

// PatchCommand is one entry of the JSON array sent to a page's /content
// sub-path on update.
type PatchCommand struct {
	Target   string        `json:"target"`
	Action   PatchAction   `json:"action"`
	Content  string        `json:"content,omitempty"`
	Position PatchPosition `json:"position,omitempty"`
}

// NewPatchCommand builds a patch command. An empty target addresses the
// whole page body.
func NewPatchCommand(target string, action PatchAction, content string) PatchCommand {
	if target == "" {
		target = defaultPatchTarget
	}
	return PatchCommand{
		Target:  target,
		Action:  action,
		Content: content,
	}
}

// Validate checks the command against the rules of the content endpoint.
func (p PatchCommand) Validate() error {
	if p.Target == "" {
		return NewValidationError("patch target must not be empty")
	}

	switch p.Action {
	case ActionReplace, ActionAppend, ActionDelete, ActionInsert, ActionPrepend:
		// ok
	default:
		return NewValidationError("invalid patch action %q", p.Action)
	}

	if p.Action != ActionDelete && p.Content == "" {
		return NewValidationError("patch action %q requires content", p.Action)
	}

	switch p.Position {
	case "", PositionBefore, PositionAfter:
		// ok
	default:
		return NewValidationError("invalid patch position %q", p.Position)
	}
	if p.Position != "" && p.Action != ActionInsert {
		return NewValidationError("position is only valid with the insert action")
	}

	return nil
}
