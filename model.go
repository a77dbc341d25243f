package msgraph

import (
	"time"
)

// Capability names the URL shape a caller wants resolved from a handle:
// a child collection, rendered page content, or the item itself.
type Capability int

const (
	ItemSelf Capability = iota
	NotebookSections
	SectionPages
	PageContent
	PageContentWithIDs
)

// Linked is implemented by entities that carry a canonical self link and
// possibly precomputed collection links. The self link is the single
// source of truth for subsequent operations on the entity.
type Linked interface {
	// SelfLink returns the canonical URL for this entity, empty if unknown.
	SelfLink() string
	// CollectionLink returns a precomputed URL for the given child
	// collection, or empty if the entity does not carry one.
	CollectionLink(c Capability) string
}

// Notebook is a OneNote notebook. Notebooks are read-only from this
// package's perspective, except for attaching child back-references.
type Notebook struct {
	ID                   string     `json:"id"`
	DisplayName          string     `json:"displayName"`
	IsDefault            bool       `json:"isDefault"`
	Self                 string     `json:"self"`
	SectionsURL          string     `json:"sectionsUrl"`
	Sections             []*Section `json:"sections,omitempty"`
	CreatedDateTime      time.Time  `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time  `json:"lastModifiedDateTime,omitempty"`
}

func (n *Notebook) SelfLink() string {
	return n.Self
}

func (n *Notebook) CollectionLink(c Capability) string {
	if c == NotebookSections {
		return n.SectionsURL
	}
	return ""
}

// Section is a OneNote section inside a notebook.
//
// Notebook is a denormalized back-reference: the API omits it unless the
// section was fetched with an explicit expansion, in which case the
// transport-supplied value is kept.
type Section struct {
	ID                   string    `json:"id"`
	DisplayName          string    `json:"displayName"`
	Self                 string    `json:"self"`
	PagesURL             string    `json:"pagesUrl"`
	Notebook             *Notebook `json:"parentNotebook,omitempty"`
	Pages                []*Page   `json:"pages,omitempty"`
	CreatedDateTime      time.Time `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime,omitempty"`
}

func (s *Section) SelfLink() string {
	return s.Self
}

func (s *Section) CollectionLink(c Capability) string {
	if c == SectionPages {
		return s.PagesURL
	}
	return ""
}

// Page is a OneNote page. Content is populated only by an explicit
// content fetch, never by list operations.
type Page struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Self                 string    `json:"self"`
	ContentURL           string    `json:"contentUrl"`
	Content              string    `json:"-"`
	Section              *Section  `json:"parentSection,omitempty"`
	Level                int       `json:"level,omitempty"`
	Order                int       `json:"order,omitempty"`
	CreatedDateTime      time.Time `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime,omitempty"`
}

func (p *Page) SelfLink() string {
	return p.Self
}

func (p *Page) CollectionLink(c Capability) string {
	if c == PageContent || c == PageContentWithIDs {
		return p.ContentURL
	}
	return ""
}

// AttachNotebook sets the parent notebook on each section that does not
// already carry one. A back-reference supplied by the transport (for
// example via an expansion) is richer than the local handle and is never
// overwritten. Attaching the same parent twice is a no-op.
func AttachNotebook(sections []*Section, nb *Notebook) []*Section {
	if nb == nil {
		return sections
	}
	for _, s := range sections {
		if s.Notebook == nil {
			s.Notebook = nb
		}
	}
	return sections
}

// AttachSection sets the parent section on each page that does not
// already carry one. Same rules as AttachNotebook.
func AttachSection(pages []*Page, sec *Section) []*Page {
	if sec == nil {
		return pages
	}
	for _, p := range pages {
		if p.Section == nil {
			p.Section = sec
		}
	}
	return pages
}

// Service principal types as reported by the directory.
const (
	TypeApplication     = "Application"
	TypeManagedIdentity = "ManagedIdentity"
)

// ServicePrincipal is a directory service principal. Read-only; this
// package never creates or mutates one.
type ServicePrincipal struct {
	ID                     string            `json:"id"`
	DisplayName            string            `json:"displayName"`
	AppID                  string            `json:"appId"`
	ServicePrincipalType   string            `json:"servicePrincipalType"`
	AppRoles               []AppRole         `json:"appRoles,omitempty"`
	OAuth2PermissionScopes []PermissionScope `json:"oauth2PermissionScopes,omitempty"`
}

// AppRole is an application role exposed by a service principal.
type AppRole struct {
	ID                 string   `json:"id"`
	DisplayName        string   `json:"displayName"`
	Value              string   `json:"value"`
	Description        string   `json:"description,omitempty"`
	IsEnabled          bool     `json:"isEnabled"`
	AllowedMemberTypes []string `json:"allowedMemberTypes,omitempty"`
}

// PermissionScope is a delegated OAuth2 permission exposed by a service
// principal.
type PermissionScope struct {
	ID                      string `json:"id"`
	Value                   string `json:"value"`
	Type                    string `json:"type"`
	AdminConsentDisplayName string `json:"adminConsentDisplayName,omitempty"`
	UserConsentDisplayName  string `json:"userConsentDisplayName,omitempty"`
	IsEnabled               bool   `json:"isEnabled"`
}

// Plan is a Planner plan. The Planner API addresses objects by ID and
// does not return self links.
type Plan struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner,omitempty"`
}

// Bucket is a column within a plan.
type Bucket struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	PlanID string `json:"planId"`
}

// Task is a Planner task. Assignments maps assignee user IDs to their
// assignment records; only the keys are of interest here.
type Task struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	PlanID          string                `json:"planId"`
	BucketID        string                `json:"bucketId"`
	PercentComplete int                   `json:"percentComplete"`
	OrderHint       string                `json:"orderHint,omitempty"`
	DueDateTime     *time.Time            `json:"dueDateTime,omitempty"`
	CreatedDateTime time.Time             `json:"createdDateTime,omitempty"`
	Assignments     map[string]Assignment `json:"assignments,omitempty"`
	ChecklistItems  int                   `json:"checklistItemCount,omitempty"`
	ChecklistOpen   int                   `json:"activeChecklistItemCount,omitempty"`
}

// Assignment records one assignee on a task.
type Assignment struct {
	AssignedDateTime time.Time `json:"assignedDateTime,omitempty"`
	OrderHint        string    `json:"orderHint,omitempty"`
}

// TaskDetail carries the extended fields of a task, fetched separately.
type TaskDetail struct {
	ID          string                   `json:"id"`
	Description string                   `json:"description,omitempty"`
	Checklist   map[string]ChecklistItem `json:"checklist,omitempty"`
}

// ChecklistItem is one entry of a task checklist.
type ChecklistItem struct {
	Title     string `json:"title"`
	IsChecked bool   `json:"isChecked"`
}
