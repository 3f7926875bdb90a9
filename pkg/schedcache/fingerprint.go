package schedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/scheduler"
)

// keyTask is the scheduling-relevant subset of a task. Display fields
// like the title do not affect the projection and are left out so a pure
// rename does not bust the cache.
type keyTask struct {
	ID       string          `json:"id"`
	State    model.TaskState `json:"state"`
	Kind     model.TaskKind  `json:"kind"`
	Minutes  int             `json:"minutes"`
	Fixed    [2]int64        `json:"fixed"`
	Window   [2]int64        `json:"window"`
	Estimate int64           `json:"estimate"`
	Priority int             `json:"priority"`
	Tags     []string        `json:"tags,omitempty"`
}

type keyInput struct {
	Template *model.DailyTemplate  `json:"template,omitempty"`
	Tasks    []keyTask             `json:"tasks,omitempty"`
	Events   []model.CalendarEvent `json:"events,omitempty"`
	Now      int64                 `json:"now"`
}

// Fingerprint derives the cache key: a sha256 over the canonical JSON of
// the scheduling-relevant input subset. Now is truncated to the minute so
// callers within the same tick produce the same key. json.Marshal sorts
// map keys and struct fields are emitted in declaration order, so the
// encoding is deterministic.
func Fingerprint(in scheduler.Input) string {
	ki := keyInput{
		Template: in.Template,
		Events:   in.CalendarEvents,
		Now:      in.Now.Truncate(time.Minute).Unix(),
	}
	for _, t := range in.Tasks {
		kt := keyTask{
			ID:       t.ID,
			State:    t.State,
			Kind:     t.Kind,
			Minutes:  t.RequiredMinutes,
			Fixed:    [2]int64{unix(t.FixedStartAt), unix(t.FixedEndAt)},
			Window:   [2]int64{unix(t.WindowStartAt), unix(t.WindowEndAt)},
			Estimate: unix(t.EstimatedStartAt),
			Priority: t.EffectivePriority(),
		}
		if len(t.Tags) > 0 {
			kt.Tags = append([]string(nil), t.Tags...)
			sort.Strings(kt.Tags)
		}
		ki.Tasks = append(ki.Tasks, kt)
	}

	raw, err := json.Marshal(ki)
	if err != nil {
		// Only unmarshalable values reach here, which the key types rule
		// out; degrade to an uncacheable key instead of panicking.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func unix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}
