package domain

import (
	"sort"
	"strings"
	"time"
)

// Sort keys accepted by SortRecords.
const (
	SortDateDesc = "date-desc"
	SortDateAsc  = "date-asc"
	SortTitle    = "title"
	SortChannel  = "channel"
)

// Tab keys for the watched partition.
const (
	TabAll       = "all"
	TabWatched   = "watched"
	TabUnwatched = "unwatched"
)

// Search returns records whose title, channel name or video id contains
// the query, case-insensitively. An empty query passes every record; the
// query is matched as-is, whitespace included. The snapshot is never
// mutated.
func Search(snapshot []BookmarkRecord, query string) []BookmarkRecord {
	query = strings.ToLower(query)
	if query == "" {
		return append([]BookmarkRecord(nil), snapshot...)
	}

	matches := make([]BookmarkRecord, 0, len(snapshot))
	for _, r := range snapshot {
		if strings.Contains(strings.ToLower(r.VideoTitle), query) ||
			strings.Contains(strings.ToLower(r.ChannelName), query) ||
			strings.Contains(strings.ToLower(r.VideoID), query) {
			matches = append(matches, r)
		}
	}
	return matches
}

// SortRecords returns a sorted copy of seq. The sort is stable: records
// comparing equal keep their relative order. Unknown keys fall back to
// SortDateDesc, the default display order.
func SortRecords(seq []BookmarkRecord, key string) []BookmarkRecord {
	out := append([]BookmarkRecord(nil), seq...)

	switch key {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedTime().Before(out[j].CreatedTime())
		})
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].VideoTitle < out[j].VideoTitle
		})
	case SortChannel:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ChannelName < out[j].ChannelName
		})
	default: // SortDateDesc
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedTime().After(out[j].CreatedTime())
		})
	}
	return out
}

// Partition holds the three watched-status views of one sequence.
type Partition struct {
	All       []BookmarkRecord
	Watched   []BookmarkRecord
	Unwatched []BookmarkRecord
}

// Counts returns the sizes of each view, keyed by tab name.
func (p Partition) Counts() map[string]int {
	return map[string]int{
		TabAll:       len(p.All),
		TabWatched:   len(p.Watched),
		TabUnwatched: len(p.Unwatched),
	}
}

// Tab returns the view for a tab key, defaulting to All.
func (p Partition) Tab(key string) []BookmarkRecord {
	switch key {
	case TabWatched:
		return p.Watched
	case TabUnwatched:
		return p.Unwatched
	default:
		return p.All
	}
}

// PartitionByWatched splits a sequence into all/watched/unwatched views.
// Order within each view follows the input sequence.
func PartitionByWatched(seq []BookmarkRecord) Partition {
	p := Partition{All: append([]BookmarkRecord(nil), seq...)}
	for _, r := range seq {
		if r.Watched {
			p.Watched = append(p.Watched, r)
		} else {
			p.Unwatched = append(p.Unwatched, r)
		}
	}
	return p
}

// DateGroup is one labeled bucket of records sharing a calendar day.
type DateGroup struct {
	Label   string           `json:"label"`
	Records []BookmarkRecord `json:"records"`
}

// GroupByDate buckets records by the calendar day of CreatedAt, in local
// time relative to now. Labels are "Today", "Yesterday", or a short
// month/day (with year when not the current year). Records keep the order
// of the input within each group, and groups appear in first-occurrence
// order of their label, so the input's sort decides which group comes first.
func GroupByDate(seq []BookmarkRecord, now time.Time) []DateGroup {
	today := truncateToDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var groups []DateGroup
	index := make(map[string]int)

	for _, r := range seq {
		day := truncateToDay(r.CreatedTime().In(now.Location()))

		var label string
		switch {
		case day.Equal(today):
			label = "Today"
		case day.Equal(yesterday):
			label = "Yesterday"
		case day.Year() != now.Year():
			label = day.Format("Jan 2, 2006")
		default:
			label = day.Format("Jan 2")
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
