package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/config"
)

// GetBaseURL retrieves the public site URL from configuration, without a
// trailing slash.
func GetBaseURL(cfg map[string]string) string {
	return strings.TrimSuffix(strings.TrimSpace(config.GetString(cfg, "BASE_URL", "")), "/")
}

// BuildBlogPostURL constructs the public URL of a post,
// e.g. "https://site.dev/blogs/hello-world".
func BuildBlogPostURL(baseURL, slug string) string {
	if baseURL == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/blogs/%s", strings.TrimSuffix(baseURL, "/"), slug)
}

// BuildPageURL joins a site path onto baseURL. An empty path is the home page.
func BuildPageURL(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if path == "" || path == "/" {
		return base
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}
