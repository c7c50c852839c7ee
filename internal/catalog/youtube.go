package catalog

import (
	"context"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jonathan/commute-coach/internal/types"
)

// DefaultSearchResults is how many search hits to pull per topic fetch.
// The pack builder only needs a pool a few times larger than a commute.
const DefaultSearchResults = 25

// YouTubeSource fetches candidates from the YouTube Data API v3.
// Search gives ids; a second videos.list call supplies durations and tags.
type YouTubeSource struct {
	service    *youtube.Service
	maxResults int64
}

// NewYouTubeSource creates a YouTube-backed catalog source.
func NewYouTubeSource(ctx context.Context, apiKey string) (*YouTubeSource, error) {
	if apiKey == "" {
		return nil, &Error{Source: "youtube", Message: "API key is required"}
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &Error{Source: "youtube", Message: "failed to create service", Cause: err}
	}

	return &YouTubeSource{service: service, maxResults: DefaultSearchResults}, nil
}

// Name implements Source.
func (s *YouTubeSource) Name() string { return "youtube" }

// Fetch implements Source. The level hint is folded into the search query
// since YouTube carries no difficulty metadata; the returned candidates stay
// unlabeled unless their tags name a level, so the strict v2 filter is still
// the builder's call.
func (s *YouTubeSource) Fetch(ctx context.Context, topic string, level types.Level) ([]types.Candidate, error) {
	query := topic + " tutorial"
	if level != "" {
		query = string(level) + " " + query
	}

	searchCall := s.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoEmbeddable("true").
		MaxResults(s.maxResults)

	searchResp, err := searchCall.Context(ctx).Do()
	if err != nil {
		return nil, &Error{Source: "youtube", Message: "search failed", Cause: err}
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil // not found is not an error
	}

	videosCall := s.service.Videos.List([]string{"snippet", "contentDetails"}).Id(ids...)
	videosResp, err := videosCall.Context(ctx).Do()
	if err != nil {
		return nil, &Error{Source: "youtube", Message: "videos lookup failed", Cause: err}
	}

	candidates := make([]types.Candidate, 0, len(videosResp.Items))
	for _, video := range videosResp.Items {
		if video.Snippet == nil || video.ContentDetails == nil {
			continue
		}
		durationSec, err := ParseISODuration(video.ContentDetails.Duration)
		if err != nil || durationSec <= 0 {
			continue
		}
		candidates = append(candidates, types.Candidate{
			ID:          video.Id,
			Title:       video.Snippet.Title,
			DurationSec: durationSec,
			TopicTags:   videoTags(topic, video.Snippet.Tags),
			Level:       levelFromTags(video.Snippet.Tags),
			SourceID:    video.Snippet.ChannelId,
			URL:         "https://www.youtube.com/watch?v=" + video.Id,
			Description: video.Snippet.Description,
		})
	}

	return candidates, nil
}

// videoTags normalizes the video's own tags and guarantees the searched
// topic is present, since the search already established topical relevance.
func videoTags(topic string, tags []string) []string {
	out := []string{types.NormalizeTag(topic)}
	seen := map[string]bool{out[0]: true}
	for _, tag := range tags {
		norm := types.NormalizeTag(tag)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}

// levelFromTags returns a level only when the uploader tagged one explicitly.
func levelFromTags(tags []string) types.Level {
	for _, tag := range tags {
		if level, ok := types.ParseLevel(strings.TrimSpace(tag)); ok {
			return level
		}
	}
	return ""
}
