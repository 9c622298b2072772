package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	CommentsKeyPrefix = "post:%d:comments"
	FeedKey           = "feed:recent"
)

const (
	PostTTL     = 30 * time.Minute
	CommentsTTL = 5 * time.Minute
	FeedTTL     = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

// Invalidate deletes a single key (no-op when caching is disabled).
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the post entry and its comment list.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

// InvalidateFeed drops the landing feed entry.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}
