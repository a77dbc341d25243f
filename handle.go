package msgraph

import (
	"fmt"
	"reflect"
	"strings"
)

type handleKind int

const (
	handleNone handleKind = iota
	handleObject
	handleLink
	handleName
)

// Handle identifies the target of an operation. It is one of three
// shapes: a typed entity carrying links, a raw URL, or a display name
// that becomes a prefix filter against a configured base collection.
//
// The zero Handle is empty and resolves to a "missing target" error.
type Handle struct {
	kind handleKind
	obj  Linked
	text string
}

// ObjectHandle wraps a link-bearing entity.
func ObjectHandle(o Linked) Handle {
	if o == nil {
		return Handle{}
	}
	return Handle{kind: handleObject, obj: o}
}

// nilLinked detects a typed-nil entity hiding inside the interface;
// calling methods on it would panic.
func nilLinked(o Linked) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// LinkHandle wraps a raw URL.
func LinkHandle(url string) Handle {
	if url == "" {
		return Handle{}
	}
	return Handle{kind: handleLink, text: url}
}

// NameHandle wraps a display name, matched as a case-insensitive prefix.
func NameHandle(name string) Handle {
	if name == "" {
		return Handle{}
	}
	return Handle{kind: handleName, text: name}
}

// ParseHandle builds a handle from untyped command-line input: anything
// with a scheme is a link, everything else is a name.
func ParseHandle(s string) Handle {
	if strings.Contains(s, "://") {
		return LinkHandle(s)
	}
	return NameHandle(s)
}

// IsZero tells if the handle is empty.
func (h Handle) IsZero() bool {
	return h.kind == handleNone
}

// IsName tells if the handle is a display-name filter. Name handles
// resolve to a filtered collection listing rather than to one item.
func (h Handle) IsName() bool {
	return h.kind == handleName
}

// Object returns the wrapped entity for an object handle, nil otherwise.
func (h Handle) Object() Linked {
	return h.obj
}

// Name returns the display name for a name handle, empty otherwise.
func (h Handle) Name() string {
	if h.kind == handleName {
		return h.text
	}
	return ""
}

// String describes the handle for log output.
func (h Handle) String() string {
	switch h.kind {
	case handleObject:
		if nilLinked(h.obj) {
			return "object(nil)"
		}
		return fmt.Sprintf("object(%v)", h.obj.SelfLink())
	case handleLink:
		return fmt.Sprintf("link(%v)", h.text)
	case handleName:
		return fmt.Sprintf("name(%v)", h.text)
	}
	return "empty"
}

// suffix returns the collection sub-path for a capability.
func (c Capability) suffix() string {
	switch c {
	case NotebookSections:
		return "/sections"
	case SectionPages:
		return "/pages"
	case PageContent, PageContentWithIDs:
		return "/content"
	}
	return ""
}

func (c Capability) query() string {
	if c == PageContentWithIDs {
		return "includeIDs=true"
	}
	return ""
}

// DefaultNameField is the entity field prefix filters are written
// against unless the resolver names another one.
const DefaultNameField = "displayName"

// Resolver turns loosely shaped target handles into request paths.
//
// Base is the collection URL used when a handle carries only a display
// name. It is injected by the caller from configuration; the resolver
// itself never reads the environment. NameField overrides the entity
// field name filters are written against (pages use "title").
type Resolver struct {
	Base      string
	NameField string
}

// Resolve returns the request path and an optional query fragment for
// the given handle and capability.
//
// Precomputed collection links on an entity win over deriving from the
// self link plus a suffix. Appending a suffix is idempotent: a URL that
// already ends in the expected collection segment is used as-is.
func (r Resolver) Resolve(h Handle, c Capability) (string, string, error) {
	switch h.kind {
	case handleObject:
		if nilLinked(h.obj) {
			return "", "", NewUnresolvableTarget("target object is nil")
		}
		if link := h.obj.CollectionLink(c); link != "" {
			return appendSuffix(link, c), c.query(), nil
		}
		self := h.obj.SelfLink()
		if self == "" {
			return "", "", NewUnresolvableTarget("target object has no usable link")
		}
		return appendSuffix(self, c), c.query(), nil
	case handleLink:
		return appendSuffix(h.text, c), c.query(), nil
	case handleName:
		if r.Base == "" {
			return "", "", NewUnresolvableTarget("cannot look up %q by name: no base collection configured", h.text)
		}
		field := r.NameField
		if field == "" {
			field = DefaultNameField
		}
		query := JoinQuery("$filter="+PrefixFilter(field, h.text), c.query())
		return appendSuffix(r.Base, c), query, nil
	case handleNone:
		return "", "", NewMissingTarget("no target specified")
	}
	return "", "", NewUnresolvableTarget("target has no recognized shape")
}

// appendSuffix appends the collection suffix for c unless the path
// already ends with it.
func appendSuffix(path string, c Capability) string {
	sfx := c.suffix()
	if sfx == "" {
		return path
	}
	trimmed := strings.TrimRight(path, "/")
	if strings.HasSuffix(trimmed, sfx) {
		return trimmed
	}
	return trimmed + sfx
}

// termEscaper percent-encodes the characters that would terminate or
// corrupt the query string the filter travels in. Everything else stays
// literal; the server decodes before parsing the filter.
var termEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	"#", "%23",
	"+", "%2B",
	";", "%3B",
	"=", "%3D",
	"?", "%3F",
)

// PrefixFilter renders a case-insensitive starts-with predicate for the
// given field. The term is lower-cased and a single trailing "*" is
// stripped. Prefix matching is the only supported filter style; there is
// no substring or glob matching.
func PrefixFilter(field, term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.TrimSuffix(term, "*")
	// single quotes are doubled in OData string literals
	term = strings.ReplaceAll(term, "'", "''")
	return fmt.Sprintf("startswith(tolower(%s),'%s')", field, termEscaper.Replace(term))
}

// JoinQuery combines query fragments, skipping empty ones.
func JoinQuery(fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "&")
}
