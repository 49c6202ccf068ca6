package cache

import "strings"

// KindTag covers every cached read of one entity kind, e.g. "blogs".
func KindTag(kind string) string {
	return kind
}

// BlogSlugTag covers reads addressed by a post slug.
func BlogSlugTag(slug string) string {
	return "blog:" + slug
}

// EntityTag covers reads of a single record addressed by id.
func EntityTag(kind, id string) string {
	return kind + "-id:" + id
}

// Key builds a cache key from an entity kind and query parameters.
func Key(kind string, params ...string) string {
	if len(params) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(params, ":")
}
