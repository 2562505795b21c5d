// internal/source/types.go
package source

// Feed names understood by the resolver.
const (
	FeedContent = "content"
	FeedPricing = "pricing"
)

// Content is the main feed document. Both sequences are optional in the
// source JSON; absent keys decode to nil and render as empty sections.
type Content struct {
	Projects  []Project  `json:"projects"`
	BlogPosts []BlogPost `json:"blogPosts"`
}

type Project struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Image       string   `json:"image"`
	Cover       string   `json:"cover"`
	Source      string   `json:"source"`
	Details     string   `json:"details"`
}

type BlogPost struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Cover    string `json:"cover"`
	ReadTime string `json:"readTime"`
	Content  string `json:"content"`
}

type PricingPlan struct {
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Unit     string   `json:"unit,omitempty"`
	Features []string `json:"features"`
	Button   string   `json:"button"`
	Featured bool     `json:"featured,omitempty"`
}

// CoverImage returns the preferred detail-view image for a project.
func (p Project) CoverImage() string {
	if p.Cover != "" {
		return p.Cover
	}
	return p.Image
}

// CardImage returns the preferred card image for a project.
func (p Project) CardImage() string {
	if p.Image != "" {
		return p.Image
	}
	return p.Cover
}

// CoverImage returns the preferred detail-view image for a post.
func (b BlogPost) CoverImage() string {
	if b.Cover != "" {
		return b.Cover
	}
	return b.Image
}

// CardImage returns the preferred card image for a post.
func (b BlogPost) CardImage() string {
	if b.Image != "" {
		return b.Image
	}
	return b.Cover
}
