package rss

import (
	"encoding/xml"
	"fmt"

	"portfolio/internal/source"
)

// RSS is the root element of an RSS feed.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in an RSS feed.
type Channel struct {
	XMLName     xml.Name `xml:"channel"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Language    string   `xml:"language,omitempty"`
	Items       []Item   `xml:"item"`
}

// Item represents an item element in an RSS feed.
type Item struct {
	XMLName     xml.Name `xml:"item"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	Category    string   `xml:"category,omitempty"`
	GUID        string   `xml:"guid,omitempty"`
}

// Build assembles the blog feed. Item links point at the post's detail
// page by positional index, matching how the site itself addresses posts.
func Build(siteTitle, siteURL string, posts []source.BlogPost) RSS {
	channel := Channel{
		Title:       siteTitle,
		Link:        siteURL,
		Description: fmt.Sprintf("Blog posts from %s", siteTitle),
		Language:    "en",
	}
	for i, post := range posts {
		link := fmt.Sprintf("%s/blog/%d", siteURL, i)
		guid := post.ID
		if guid == "" {
			guid = link
		}
		channel.Items = append(channel.Items, Item{
			Title:       post.Title,
			Link:        link,
			Description: post.Excerpt,
			Category:    post.Category,
			GUID:        guid,
		})
	}
	return RSS{Version: "2.0", Channel: channel}
}

// Encode renders the feed as XML with the standard header.
func (r RSS) Encode() ([]byte, error) {
	out, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
