package seedfile

// Entry is a single bookmark entry in the seed YAML file.
type Entry struct {
	VideoID              string `yaml:"video_id"`
	VideoTitle           string `yaml:"video_title"`
	ChannelName          string `yaml:"channel_name"`
	ChannelURL           string `yaml:"channel_url"`
	TimestampSeconds     *int   `yaml:"timestamp_seconds"`
	VideoDurationSeconds int    `yaml:"video_duration_seconds"`
	CreatedAt            string `yaml:"created_at"`
}

// Config is the root structure of the seed file.
type Config struct {
	Bookmarks []Entry `yaml:"bookmarks"`
}
