package coverage

import (
	"fmt"
	"sort"
	"time"
)

// TimeBlock is a discrete local-time window derived from observed shift
// hours. Blocks come only from shift data — dispatcher assignments recorded
// with stale hours must never fabricate a phantom column.
type TimeBlock struct {
	StartHour int       `json:"startHour"`
	EndHour   int       `json:"endHour"`
	Label     string    `json:"label"`
	StartUTC  time.Time `json:"startUTC"`
	EndUTC    time.Time `json:"endUTC"`
}

// Key is the block's composite-key component, e.g. "6-10".
func (b TimeBlock) Key() string {
	return blockKey(b.StartHour, b.EndHour)
}

func blockKey(startHour, endHour int) string {
	return fmt.Sprintf("%d-%d", startHour, endHour)
}

// deriveTimeBlocks scans the shift set for distinct (localStartHour,
// localEndHour) pairs. The first shift seen with a given pair anchors the
// block's UTC display instants. No shifts means no blocks, and therefore an
// empty grid — that's correct, not an error.
func deriveTimeBlocks(shifts []Shift, loc *time.Location) []TimeBlock {
	type hourPair struct{ start, end int }
	seen := map[hourPair]bool{}

	var blocks []TimeBlock
	for _, s := range shifts {
		pair := hourPair{localHour(s.StartTime, loc), localHour(s.EndTime, loc)}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		blocks = append(blocks, TimeBlock{
			StartHour: pair.start,
			EndHour:   pair.end,
			Label:     hourLabel(pair.start) + "-" + hourLabel(pair.end),
			StartUTC:  s.StartTime.UTC(),
			EndUTC:    s.EndTime.UTC(),
		})
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].StartHour != blocks[j].StartHour {
			return blocks[i].StartHour < blocks[j].StartHour
		}
		return blocks[i].EndHour < blocks[j].EndHour
	})
	return blocks
}
