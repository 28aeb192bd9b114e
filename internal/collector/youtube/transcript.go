package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// Transcript gate.
// Primary:  scrape watch page ytInitialPlayerResponse → caption tracks
// Fallback: ANDROID Innertube /player → captionTracks
//
// "No captions" is the documented common case and comes back as a plain
// negative; only transport-level failures are errors, retried once, and
// ultimately excluded fail-closed by the orchestrator.

// ytInitialPlayerResponseMarker marks the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// errNoPlayerResponse means the watch page came back without the embedded
// player JSON (consent wall, bot check) — ambiguous, so the player fallback runs.
var errNoPlayerResponse = errors.New("ytInitialPlayerResponse not found in watch page")

// Gate answers transcript-availability queries, memoized in the tiered cache.
type Gate struct {
	httpc    *http.Client
	langs    []string
	watchURL string
}

// NewGate builds a transcript gate from the collector configuration.
func NewGate() *Gate {
	return &Gate{
		httpc:    collector.Cfg.HTTPClient,
		langs:    collector.Cfg.TranscriptLanguages,
		watchURL: "https://www.youtube.com",
	}
}

// gateRetry allows a single retry for transport failures.
var gateRetry = collector.RetryConfig{MaxRetries: 1, Wait: 500 * time.Millisecond}

// HasTranscript reports whether the video has at least one usable caption
// track in a preferred language (or any language when none are configured).
func (g *Gate) HasTranscript(ctx context.Context, videoID string) (bool, error) {
	if has, ok := collector.TranscriptCacheGet(ctx, videoID); ok {
		return has, nil
	}
	collector.IncrTranscriptChecks()

	has, err := g.probeWatchPage(ctx, videoID)
	if err != nil {
		slog.Debug("watch page probe failed, trying player",
			slog.String("id", videoID), slog.Any("error", err))
		has, err = g.probePlayer(ctx, videoID)
		if err != nil {
			return false, err
		}
	}

	collector.TranscriptCacheSet(ctx, videoID, has)
	return has, nil
}

// probeWatchPage fetches the watch page and checks ytInitialPlayerResponse
// for caption tracks. Works from any IP.
func (g *Gate) probeWatchPage(ctx context.Context, videoID string) (bool, error) {
	pageURL := g.watchURL + "/watch?v=" + videoID

	resp, err := collector.RetryHTTP(ctx, gateRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return g.httpc.Do(req)
	})
	if err != nil {
		return false, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return false, fmt.Errorf("read watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return false, errNoPlayerResponse
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return false, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return false, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return hasUsableTrack(playerResp, g.langs), nil
}

// probePlayer uses the ANDROID Innertube /player endpoint. Works from
// non-blocked (residential/cloud) IP addresses.
func (g *Gate) probePlayer(ctx context.Context, videoID string) (bool, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return false, err
	}

	resp, err := collector.RetryHTTP(ctx, gateRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytPlayerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return g.httpc.Do(req)
	})
	if err != nil {
		return false, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return false, fmt.Errorf("decode player: %w", err)
	}
	return hasUsableTrack(playerResp, g.langs), nil
}

// hasUsableTrack reports whether the player response carries a caption track
// matching the language preferences. No captions block at all means captions
// are disabled for the video — a normal negative.
func hasUsableTrack(resp innertubePlayerResp, langs []string) bool {
	if resp.Captions == nil {
		return false
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return false
	}
	if len(langs) == 0 {
		return true
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return true
			}
		}
	}
	return false
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by
// tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}
