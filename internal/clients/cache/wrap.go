package cache

import (
	"context"

	"github.com/botfabrik/dialog-backend/internal/kbqa"
)

// WrapLinker adds read-through caching to an entity linker. With a nil cache
// it is a passthrough.
func WrapLinker(inner kbqa.EntityLinker, c *Cache) kbqa.EntityLinker {
	if c == nil {
		return inner
	}
	return &cachedLinker{inner: inner, cache: c}
}

type cachedLinker struct {
	inner kbqa.EntityLinker
	cache *Cache
}

type linkerKey struct {
	Mentions []string        `json:"mentions"`
	Tags     [][]kbqa.NERTag `json:"tags"`
	Context  string          `json:"context"`
}

func (l *cachedLinker) Link(ctx context.Context, mentions []string, mentionTags [][]kbqa.NERTag, questionContext string) ([]kbqa.MentionLinks, error) {
	key := Key("el", linkerKey{Mentions: mentions, Tags: mentionTags, Context: questionContext})
	var cached []kbqa.MentionLinks
	if l.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	out, err := l.inner.Link(ctx, mentions, mentionTags, questionContext)
	if err != nil {
		return nil, err
	}
	l.cache.Set(ctx, key, out)
	return out, nil
}

// WrapWikiParser adds read-through caching to a wiki parser. With a nil
// cache it is a passthrough.
func WrapWikiParser(inner kbqa.WikiParser, c *Cache) kbqa.WikiParser {
	if c == nil {
		return inner
	}
	return &cachedWikiParser{inner: inner, cache: c}
}

type cachedWikiParser struct {
	inner kbqa.WikiParser
	cache *Cache
}

func (w *cachedWikiParser) FindRels(ctx context.Context, queries []kbqa.RelQuery) ([]string, error) {
	key := Key("wp", queries)
	var cached []string
	if w.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	out, err := w.inner.FindRels(ctx, queries)
	if err != nil {
		return nil, err
	}
	w.cache.Set(ctx, key, out)
	return out, nil
}
