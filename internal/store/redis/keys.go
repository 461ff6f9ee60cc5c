package redis

const (
	// KeyBookmarks holds the entire bookmark collection as one JSON array.
	KeyBookmarks = "marker:bookmarks"
	// ChannelChanges carries change notifications published on every save.
	ChannelChanges = "marker:bookmarks:changes"
)

// CollectionKey returns the Redis key holding the bookmark collection.
func CollectionKey() string {
	return KeyBookmarks
}

// ChangeChannel returns the pub/sub channel for collection changes.
func ChangeChannel() string {
	return ChannelChanges
}
