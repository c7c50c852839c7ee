package packer

import (
	"fmt"
	"sort"

	"github.com/jonathan/commute-coach/internal/types"
)

// V2BandSec is the fixed tolerance around the target duration in the v2
// contract: the acceptance window is [target-V2BandSec, target+V2BandSec].
const V2BandSec = 60

// Request is the legacy pack request: the caller supplies the duration
// window, and the level filter is optional (unlabeled candidates match any
// requested level).
type Request struct {
	Topic            string
	Level            types.Level // optional; empty means any level
	MinDurationSec   int
	MaxDurationSec   int
	ExcludedIDs      []string
	BlockedSourceIDs []string
	Seed             int64
}

// V2Request is the strict pack request: level is mandatory and matched
// exactly, and the window is derived from TargetSeconds.
type V2Request struct {
	Topic            string
	Level            types.Level
	TargetSeconds    int
	ExcludedIDs      []string
	BlockedSourceIDs []string
	Seed             int64
}

// Result is a built pack: the selected candidates in selection order plus
// fill metrics.
type Result struct {
	Items            []types.Candidate
	TotalDurationSec int
	UnderFilled      bool
}

// BuildPack selects a pack under the legacy contract.
//
// key invariants:
//   - Topic match is a case-insensitive exact tag match, never substring.
//   - Selection is deterministic: candidates are ordered by (duration asc,
//     id asc) before the greedy pass, regardless of input pool order.
//   - TotalDurationSec never exceeds MaxDurationSec.
//   - No two selected items share an id, even if the pool contains repeats.
//
// An empty or underfilled result is not an error; only a malformed request is.
func BuildPack(candidates []types.Candidate, req Request) (*Result, error) {
	if req.MinDurationSec <= 0 || req.MaxDurationSec <= 0 {
		return nil, &Error{Message: fmt.Sprintf("duration bounds must be positive, got [%d, %d]", req.MinDurationSec, req.MaxDurationSec)}
	}
	if req.MinDurationSec > req.MaxDurationSec {
		return nil, &Error{Message: fmt.Sprintf("min duration %d exceeds max duration %d", req.MinDurationSec, req.MaxDurationSec)}
	}

	eligible := filterPool(candidates, req.Topic, req.ExcludedIDs, req.BlockedSourceIDs, func(c *types.Candidate) bool {
		if req.Level == "" {
			return true
		}
		// Unlabeled candidates match any requested level in the legacy contract.
		return c.Level == "" || c.Level == req.Level
	})

	return fillWindow(eligible, req.MinDurationSec, req.MaxDurationSec), nil
}

// BuildPackV2 selects a pack under the strict contract: the requested level
// is mandatory and matched exactly (unlabeled or wrong-level candidates are
// never eligible, even when nothing else matches), and the window is
// TargetSeconds plus/minus V2BandSec.
func BuildPackV2(candidates []types.Candidate, req V2Request) (*Result, error) {
	if req.Level == "" {
		return nil, &Error{Message: "level is required"}
	}
	if req.TargetSeconds <= V2BandSec {
		return nil, &Error{Message: fmt.Sprintf("target seconds must exceed %d, got %d", V2BandSec, req.TargetSeconds)}
	}

	eligible := filterPool(candidates, req.Topic, req.ExcludedIDs, req.BlockedSourceIDs, func(c *types.Candidate) bool {
		return c.Level == req.Level
	})

	return fillWindow(eligible, req.TargetSeconds-V2BandSec, req.TargetSeconds+V2BandSec), nil
}

// filterPool keeps candidates that carry the topic tag, pass the level
// predicate, and are not excluded by id or source. Nonpositive durations are
// dropped here so the greedy pass only sees valid items.
func filterPool(candidates []types.Candidate, topic string, excludedIDs, blockedSourceIDs []string, levelOK func(*types.Candidate) bool) []types.Candidate {
	excluded := make(map[string]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	blocked := make(map[string]bool, len(blockedSourceIDs))
	for _, id := range blockedSourceIDs {
		blocked[id] = true
	}

	eligible := make([]types.Candidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.DurationSec <= 0 {
			continue
		}
		if excluded[c.ID] || blocked[c.SourceID] {
			continue
		}
		if !c.HasTopic(topic) {
			continue
		}
		if !levelOK(c) {
			continue
		}
		eligible = append(eligible, *c)
	}
	return eligible
}

// fillWindow runs the shared deterministic greedy pass: sort by (duration
// asc, id asc), then accept each candidate whose duration still fits under
// maxSec. Items that do not fit are skipped, not terminal, since a later
// shorter-or-equal duplicate id or a remaining item may still fit. The pass
// always runs to pool exhaustion; minSec only determines the underfill flag.
//
// When even the whole eligible pool cannot reach minSec, the greedy pass is
// pointless and the result is an empty underfilled pack rather than a token
// handful of short videos.
func fillWindow(eligible []types.Candidate, minSec, maxSec int) *Result {
	if poolTotal(eligible) < minSec {
		return &Result{Items: []types.Candidate{}, UnderFilled: true}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].DurationSec != eligible[j].DurationSec {
			return eligible[i].DurationSec < eligible[j].DurationSec
		}
		return eligible[i].ID < eligible[j].ID
	})

	selected := make([]types.Candidate, 0, len(eligible))
	seen := make(map[string]bool, len(eligible))
	total := 0

	for i := range eligible {
		c := &eligible[i]
		if seen[c.ID] {
			continue
		}
		if total+c.DurationSec > maxSec {
			continue
		}
		seen[c.ID] = true
		selected = append(selected, *c)
		total += c.DurationSec
	}

	return &Result{
		Items:            selected,
		TotalDurationSec: total,
		UnderFilled:      total < minSec,
	}
}

// poolTotal sums eligible durations, counting each id once.
func poolTotal(eligible []types.Candidate) int {
	seen := make(map[string]bool, len(eligible))
	total := 0
	for i := range eligible {
		if seen[eligible[i].ID] {
			continue
		}
		seen[eligible[i].ID] = true
		total += eligible[i].DurationSec
	}
	return total
}
