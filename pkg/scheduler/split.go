package scheduler

import (
	"fmt"
	"time"

	"timegrid/pkg/model"
)

// SplitLongTasks decomposes every focus-eligible task whose duration
// exceeds the segment ceiling into a chain of bounded segments with a
// fixed-length split break between adjacent segments. Segments inherit
// the parent ID with a -seg-N suffix and carry the auto-split-focus tag;
// the breaks carry auto-split-break. The first segment keeps the parent's
// anchor; later chain elements run on derived estimated starts, each
// starting exactly where the previous element ends.
//
// Breaks, fixed events, and RUNNING/DONE tasks are never split.
func (e *Engine) SplitLongTasks(tasks []model.Task) []model.Task {
	ceiling := e.cfg.SegmentCeilingMinutes
	if ceiling < 1 {
		return tasks
	}
	var out []model.Task
	for _, t := range tasks {
		if t.Kind == model.KindBreak || t.Kind == model.KindFixedEvent ||
			model.Classify(t) == model.ClassTerminal || t.EffectiveMinutes() <= ceiling {
			out = append(out, t)
			continue
		}
		out = append(out, e.splitOne(t, ceiling)...)
	}
	return out
}

// splitOne balances the parent's duration over ceil(required/ceiling)
// segments so no segment exceeds the ceiling and none is unreasonably
// short (segment lengths differ by at most one minute).
func (e *Engine) splitOne(t model.Task, ceiling int) []model.Task {
	required := t.EffectiveMinutes()
	n := (required + ceiling - 1) / ceiling
	base := required / n
	rem := required % n

	var cursor *time.Time
	if at := t.DisplayStartAt(); at != nil {
		v := *at
		cursor = &v
	}

	chain := make([]model.Task, 0, 2*n-1)
	for i := 1; i <= n; i++ {
		minutes := base
		if i <= rem {
			minutes++
		}

		seg := t.Clone()
		seg.ID = fmt.Sprintf("%s-seg-%d", t.ID, i)
		seg.RequiredMinutes = minutes
		seg.Origin = model.OriginSplitSegment
		seg.Tags = appendTag(seg.Tags, model.TagAutoSplitFocus)
		if i == 1 {
			// The first segment retains the parent's anchor start; its
			// end now derives from the segment duration.
			seg.FixedEndAt, seg.WindowEndAt = nil, nil
		} else {
			seg.FixedStartAt, seg.FixedEndAt = nil, nil
			seg.WindowStartAt, seg.WindowEndAt = nil, nil
			seg.EstimatedStartAt = cloneCursor(cursor)
		}
		chain = append(chain, seg)
		advance(&cursor, minutes)

		if i == n {
			break
		}
		rest := model.Task{
			ID:               fmt.Sprintf("%s-seg-break-%d", t.ID, i),
			Title:            "Break",
			State:            t.State,
			Kind:             model.KindBreak,
			RequiredMinutes:  e.cfg.SplitBreakMinutes,
			Origin:           model.OriginSplitBreak,
			Tags:             []string{model.TagAutoSplitBreak},
			EstimatedStartAt: cloneCursor(cursor),
			CreatedAt:        t.CreatedAt,
		}
		chain = append(chain, rest)
		advance(&cursor, e.cfg.SplitBreakMinutes)
	}
	return chain
}

func appendTag(tags []string, tag string) []string {
	for _, v := range tags {
		if v == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func cloneCursor(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func advance(t **time.Time, minutes int) {
	if *t == nil {
		return
	}
	v := (*t).Add(time.Duration(minutes) * time.Minute)
	*t = &v
}
