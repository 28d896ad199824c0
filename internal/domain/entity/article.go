// Package entity defines the core domain entities and validation logic for
// the application. It contains the fundamental business objects such as
// Article and NewsSource, along with publish-date resolution and
// domain-specific errors.
package entity

// Article is the canonical normalized record produced by every source
// adapter. Articles are constructed fresh on each adapter invocation and
// never mutated after construction; aggregation only reorders and
// concatenates them.
//
// Upstream APIs populate the four date fields inconsistently, so a single
// authoritative instant is derived from them via PublishDate in the declared
// precedence order. They are typed `any` because
// upstream payloads carry heterogeneous shapes (ISO strings, epoch numbers,
// {date, timezone} objects) that must be decoded losslessly.
type Article struct {
	TID     int    `json:"tid,omitempty"`
	Label   string `json:"label"`
	TSlug   string `json:"tslug"`
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Intro   string `json:"intro"`
	Summary string `json:"summary,omitempty"`
	SEOAlt  string `json:"seoAlt,omitempty"`
	Image   string `json:"image"`

	StartPublish any `json:"startPublish"`
	Date         any `json:"date,omitempty"`
	Created      any `json:"created,omitempty"`
	Updated      any `json:"updated,omitempty"`

	Category  string `json:"category,omitempty"`
	Link      string `json:"link"`
	Link2     string `json:"link2,omitempty"`
	FirstItem bool   `json:"firstItem"`
	Source    string `json:"source"`
}

// Valid reports whether the article satisfies the mandatory-field invariant.
// Records failing this are dropped during adapter parsing, never stored.
func (a *Article) Valid() bool {
	return a.Link != "" && a.Title != ""
}
