package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/commute-coach/internal/types"
)

func TestPrintIntent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIntent(&types.CommuteIntent{
		Topic:          "python",
		Level:          "beginner",
		CommuteMinutes: 25,
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED INTENT")
	assert.Contains(t, output, "python")
	assert.Contains(t, output, "beginner")
	assert.Contains(t, output, "25 min")
}

func TestPrintIntent_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIntent(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCandidatePool(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	pool := []types.Candidate{
		{ID: "v1", Title: "Intro to Go", DurationSec: 300, Level: types.LevelBeginner},
		{ID: "v2", Title: "Goroutines in depth", DurationSec: 540},
	}

	p.PrintCandidatePool(pool)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE POOL")
	assert.Contains(t, output, "Total candidates: 2")
	assert.Contains(t, output, "Intro to Go")
	assert.Contains(t, output, "5:00")
	assert.Contains(t, output, "[beginner]")
}

func TestPrintCandidatePool_TruncatesLongPools(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	pool := make([]types.Candidate, 8)
	for i := range pool {
		pool[i] = types.Candidate{ID: "v", Title: "video", DurationSec: 60}
	}

	p.PrintCandidatePool(pool)

	assert.Contains(t, buf.String(), "and 3 more")
}

func TestPrintPack(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	pack := &types.PackResponse{
		Items: []types.Candidate{
			{ID: "v1", Title: "Intro to Go", DurationSec: 300},
			{ID: "v2", DurationSec: 600},
		},
		TotalDurationSec: 900,
	}

	p.PrintPack(pack, 840, 960)
	output := buf.String()

	assert.Contains(t, output, "BUILT PACK")
	assert.Contains(t, output, "1. Intro to Go (5:00)")
	assert.Contains(t, output, "2. v2 (10:00)") // falls back to the id
	assert.Contains(t, output, "15:00 of 14:00-16:00 window")
	assert.Contains(t, output, "Status:   filled")
}

func TestPrintPack_UnderFilled(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPack(&types.PackResponse{UnderFilled: true}, 600, 720)
	output := buf.String()

	assert.Contains(t, output, "No videos selected")
	assert.Contains(t, output, "under-filled")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:45", FormatDuration(45))
	assert.Equal(t, "5:00", FormatDuration(300))
	assert.Equal(t, "1:01:05", FormatDuration(3665))
	assert.Equal(t, "0:00", FormatDuration(-3))
}
