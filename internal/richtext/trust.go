// Package richtext prepares CMS-authored HTML for rendering: the trust
// boundary it crosses, heading anchors for the table of contents, and the
// pipe-delimited FAQ format.
package richtext

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Mode selects how much the site trusts HTML coming from the CMS.
type Mode string

const (
	// ModeTrust embeds CMS HTML verbatim. The CMS operator is fully trusted.
	ModeTrust Mode = "trust"
	// ModeUGC runs CMS HTML through a user-generated-content sanitizer.
	ModeUGC Mode = "ugc"
)

// ParseMode maps a configuration value onto a Mode. Empty means ModeTrust.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTrust:
		return ModeTrust, nil
	case ModeUGC:
		return ModeUGC, nil
	default:
		return "", fmt.Errorf("richtext: unknown html policy %q", s)
	}
}

// Policy is the single place where CMS HTML becomes template.HTML. Templates
// never convert strings to template.HTML on their own.
type Policy struct {
	mode     Mode
	sanitize *bluemonday.Policy
}

// NewPolicy builds a Policy for mode. Unknown modes fall back to ModeTrust.
func NewPolicy(mode Mode) *Policy {
	p := &Policy{mode: ModeTrust}
	if mode == ModeUGC {
		ugc := bluemonday.UGCPolicy()
		ugc.AllowAttrs("id").Matching(headingIDPattern).OnElements("h2")
		ugc.RequireNoFollowOnLinks(true)
		p.mode = ModeUGC
		p.sanitize = ugc
	}
	return p
}

// Mode reports the active mode.
func (p *Policy) Mode() Mode {
	if p == nil {
		return ModeTrust
	}
	return p.mode
}

// HTML marks fragment as safe for embedding, sanitizing it first in ModeUGC.
func (p *Policy) HTML(fragment string) template.HTML {
	if p == nil || p.sanitize == nil {
		return template.HTML(fragment)
	}
	return template.HTML(p.sanitize.Sanitize(fragment))
}
