// internal/view/gallery.go
package view

import (
	"net/url"
	"sort"
	"strings"

	"portfolio/internal/source"
)

// EmptyState is the fixed placeholder shown instead of an empty gallery.
type EmptyState struct {
	Icon    string
	Heading string
	Message string
}

var (
	projectsEmpty = EmptyState{
		Icon:    "fas fa-folder-open",
		Heading: "No Projects Yet",
		Message: "Check back soon for exciting projects!",
	}
	blogEmpty = EmptyState{
		Icon:    "fas fa-pen-fancy",
		Heading: "No Blog Posts Yet",
		Message: "Stay tuned for upcoming articles and tutorials!",
	}
)

type ProjectCard struct {
	Index       int
	Title       string
	Description string
	Image       string
	Tech        []string
	TechAttr    string // serialized tag set for the card's data attribute
	Visible     bool
}

// FilterChip is one toggle in the gallery's filter row. ToggleQuery is
// the query string that activates the filter set with this chip flipped.
type FilterChip struct {
	Tag         string
	Active      bool
	ToggleQuery string
}

type ProjectGalleryView struct {
	Cards  []ProjectCard
	Chips  []FilterChip
	Active []string
	Empty  bool
	State  EmptyState
}

// ProjectGallery projects the feed's project sequence into a filterable
// card grid. Cards keep feed order and positional indices; visibility
// follows the AND rule: a card shows iff the active set is empty or the
// card's tag set contains every active tag. The chip row is suppressed
// entirely when the feed has no projects.
func ProjectGallery(projects []source.Project, active []string) ProjectGalleryView {
	if len(projects) == 0 {
		return ProjectGalleryView{Empty: true, State: projectsEmpty}
	}

	known := allTech(projects)
	active = normalizeFilters(active, known)

	view := ProjectGalleryView{Active: active}
	for i, p := range projects {
		view.Cards = append(view.Cards, ProjectCard{
			Index:       i,
			Title:       p.Title,
			Description: truncate(p.Description, 120),
			Image:       p.CardImage(),
			Tech:        p.Tech,
			TechAttr:    strings.Join(p.Tech, ","),
			Visible:     visible(p.Tech, active),
		})
	}
	for _, tag := range known {
		view.Chips = append(view.Chips, FilterChip{
			Tag:         tag,
			Active:      contains(active, tag),
			ToggleQuery: toggleQuery(active, tag),
		})
	}
	return view
}

type BlogCard struct {
	Index    int
	Title    string
	Excerpt  string
	Category string
	Date     string
	ReadTime string
	Image    string
}

type BlogGalleryView struct {
	Cards []BlogCard
	Empty bool
	State EmptyState
}

// BlogGallery has no filter row; an empty feed still gets a placeholder.
func BlogGallery(posts []source.BlogPost) BlogGalleryView {
	if len(posts) == 0 {
		return BlogGalleryView{Empty: true, State: blogEmpty}
	}
	view := BlogGalleryView{}
	for i, p := range posts {
		view.Cards = append(view.Cards, BlogCard{
			Index:    i,
			Title:    p.Title,
			Excerpt:  truncate(p.Excerpt, 120),
			Category: p.Category,
			Date:     p.Date,
			ReadTime: p.ReadTime,
			Image:    p.CardImage(),
		})
	}
	return view
}

// allTech returns the union of tags across all projects, deduplicated
// and sorted ascending.
func allTech(projects []source.Project) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range projects {
		for _, t := range p.Tech {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

// visible reports whether a card's tag set satisfies the active filter
// set: empty filters show everything, otherwise every active tag must
// be present on the card.
func visible(cardTech, active []string) bool {
	for _, want := range active {
		if !contains(cardTech, want) {
			return false
		}
	}
	return true
}

// normalizeFilters drops unknown and duplicate tags so stale query
// strings cannot poison the chip row.
func normalizeFilters(active, known []string) []string {
	var out []string
	for _, tag := range active {
		if contains(known, tag) && !contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// toggleQuery builds the query string for the active set with one tag
// flipped. Toggling the same tag twice round-trips to the original set.
func toggleQuery(active []string, tag string) string {
	values := url.Values{}
	found := false
	for _, t := range active {
		if t == tag {
			found = true
			continue
		}
		values.Add("tech", t)
	}
	if !found {
		values.Add("tech", tag)
	}
	return values.Encode()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// truncate shortens text to maxLength, avoiding mid-word cuts.
func truncate(input string, maxLength int) string {
	if input == "" || maxLength <= 0 {
		return ""
	}
	if len(input) <= maxLength {
		return input
	}

	actualLength := maxLength - 3
	if actualLength <= 0 {
		return "..."
	}
	text := input[:actualLength]
	if lastSpace := strings.LastIndex(text, " "); lastSpace > actualLength/2 {
		text = text[:lastSpace]
	}
	return text + "..."
}
