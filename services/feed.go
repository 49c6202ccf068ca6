package services

import (
	"context"
	"encoding/xml"
	"sort"
	"time"

	"github.com/gorilla/feeds"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type PublishedSource interface {
	ListPublished(ctx context.Context) ([]*models.BlogPost, error)
}

type FeedConfig struct {
	BaseURL     string
	Title       string
	Description string
	Now         func() time.Time
}

// FeedService produces the syndication views of the blog: RSS and sitemap.
type FeedService struct {
	posts PublishedSource
	cfg   FeedConfig
}

func NewFeedService(posts PublishedSource, cfg FeedConfig) *FeedService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &FeedService{posts: posts, cfg: cfg}
}

type FeedItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	GUID        string    `json:"guid"`
	PublishedAt time.Time `json:"publishedAt"`
	Excerpt     string    `json:"excerpt"`
	// UpdatedAt feeds the sitemap's lastmod.
	UpdatedAt time.Time `json:"-"`
}

// Items lists every published post, newest first.
func (s *FeedService) Items(ctx context.Context) ([]FeedItem, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		if !p.Public() {
			continue
		}
		published := p.CreatedAt
		if p.PublishedAt != nil {
			published = *p.PublishedAt
		}
		item := FeedItem{
			Title:       p.Title,
			Link:        BuildBlogPostURL(s.cfg.BaseURL, p.Slug),
			GUID:        p.ID.String(),
			PublishedAt: published.UTC(),
			UpdatedAt:   p.UpdatedAt.UTC(),
		}
		if p.Excerpt != nil {
			item.Excerpt = *p.Excerpt
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt.After(items[j].PublishedAt) })
	return items, nil
}

// RSS renders Items as an RSS 2.0 document.
func (s *FeedService) RSS(ctx context.Context) (string, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return "", err
	}
	feed := &feeds.Feed{
		Title:       s.cfg.Title,
		Link:        &feeds.Link{Href: BuildPageURL(s.cfg.BaseURL, "")},
		Description: s.cfg.Description,
		Created:     s.cfg.Now().UTC(),
	}
	if len(items) > 0 {
		feed.Updated = items[0].PublishedAt
	}
	for _, it := range items {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Id:          it.GUID,
			Description: it.Excerpt,
			Created:     it.PublishedAt,
		})
	}
	return feed.ToRss()
}

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap lists the home page, the blog index and every published post.
func (s *FeedService) Sitemap(ctx context.Context) ([]byte, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	today := s.cfg.Now().UTC().Format(time.DateOnly)
	set := urlSet{
		Xmlns: sitemapNS,
		URLs: []sitemapURL{
			{Loc: BuildPageURL(s.cfg.BaseURL, ""), LastMod: today, ChangeFreq: "monthly", Priority: "1.0"},
			{Loc: BuildPageURL(s.cfg.BaseURL, "blogs"), LastMod: today, ChangeFreq: "daily", Priority: "0.8"},
		},
	}
	for _, it := range items {
		mod := it.UpdatedAt
		if mod.IsZero() {
			mod = it.PublishedAt
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        it.Link,
			LastMod:    mod.Format(time.DateOnly),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
