package validate

import (
	"sort"

	"github.com/magpierre/tableschema/schema"
)

type occurrence struct {
	row   int
	index interface{}
	value interface{}
}

// dupTracker groups occurrences by value key, remembering first-seen order.
type dupTracker struct {
	groups map[string][]occurrence
}

func newDupTracker() *dupTracker {
	return &dupTracker{groups: make(map[string][]occurrence)}
}

func (d *dupTracker) add(key string, occ occurrence) {
	d.groups[key] = append(d.groups[key], occ)
}

// duplicates returns the occurrences to report under mode, ordered by row.
func (d *dupTracker) duplicates(mode schema.ReportDuplicates) []occurrence {
	var out []occurrence
	for _, group := range d.groups {
		if len(group) < 2 {
			continue
		}
		switch mode {
		case schema.ReportFirst:
			out = append(out, group[0])
		case schema.ReportExcludeFirst:
			out = append(out, group[1:]...)
		default:
			out = append(out, group...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].row < out[j].row })
	return out
}
