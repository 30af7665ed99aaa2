package actions

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"aura/internal/intent"
)

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func newTestRouter(t *testing.T) (*Router, *recordingOpener) {
	opener := &recordingOpener{}
	now := time.Date(2024, time.March, 4, 15, 4, 0, 0, time.UTC)
	return NewRouter(opener, zaptest.NewLogger(t), WithClock(func() time.Time { return now })), opener
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name    string
		in      *intent.Intent
		want    string
		wantURL string
	}{
		{"missing", nil, MissingIntentText, ""},
		{"time", &intent.Intent{Intent: intent.Time}, "It's 03:04 PM on Monday, March 04.", ""},
		{"weather city", &intent.Intent{Intent: intent.Weather, Location: "in new york"}, "Showing weather for New York", "https://www.google.com/search?q=weather%20in%20new%20york"},
		{"weather no city", &intent.Intent{Intent: intent.Weather}, WeatherNoLocation, "https://www.google.com/search?q=weather"},
		{"open known", &intent.Intent{Intent: intent.OpenApp, Target: "spotify app"}, "Opening Spotify", "https://open.spotify.com"},
		{"open unknown", &intent.Intent{Intent: intent.OpenApp, Target: "reddit website"}, "Opening reddit", "https://reddit.com"},
		{"open empty", &intent.Intent{Intent: intent.OpenApp, Target: "  "}, NoAppText, ""},
		{"search", &intent.Intent{Intent: intent.Search, Query: "lofi beats"}, "Playing lofi beats on YouTube", "https://www.youtube.com/results?search_query=lofi%20beats"},
		{"search reserved chars", &intent.Intent{Intent: intent.Search, Query: "rock & roll"}, "Playing rock & roll on YouTube", "https://www.youtube.com/results?search_query=rock%20%26%20roll"},
		{"weather reserved chars", &intent.Intent{Intent: intent.Weather, Location: "salt & pepper"}, "Showing weather for Salt & Pepper", "https://www.google.com/search?q=weather%20in%20salt%20%26%20pepper"},
		{"search empty", &intent.Intent{Intent: intent.Search}, NoQueryText, ""},
		{"respond", &intent.Intent{Intent: intent.Respond, Text: "You're welcome!"}, "You're welcome!", ""},
		{"respond empty", &intent.Intent{Intent: intent.Respond}, EmptyRespondText, ""},
		{"unknown", &intent.Intent{Intent: "dance"}, UnknownIntentText, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, opener := newTestRouter(t)

			if got := r.Handle(tt.in); got != tt.want {
				t.Errorf("Handle() = %q, want %q", got, tt.want)
			}

			if tt.wantURL == "" {
				if len(opener.urls) != 0 {
					t.Errorf("Expected no browser call, got %v", opener.urls)
				}
				return
			}
			if len(opener.urls) != 1 || opener.urls[0] != tt.wantURL {
				t.Errorf("Expected %s to be opened, got %v", tt.wantURL, opener.urls)
			}
		})
	}
}

func TestOpenFailureKeepsAnswer(t *testing.T) {
	opener := &recordingOpener{err: errors.New("no display")}
	r := NewRouter(opener, zaptest.NewLogger(t))

	if got := r.Handle(&intent.Intent{Intent: intent.OpenApp, Target: "youtube"}); got != "Opening Youtube" {
		t.Errorf("Unexpected answer %q", got)
	}
}

func TestNilOpenerDisablesBrowser(t *testing.T) {
	r := NewRouter(nil, nil)
	if got := r.Handle(&intent.Intent{Intent: intent.Search, Query: "jazz"}); got != "Playing jazz on YouTube" {
		t.Errorf("Unexpected answer %q", got)
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, "https://example.com")
		if name != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.goos, tt.want, name)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("%s: URL must be the last argument, got %v", tt.goos, args)
		}
	}
}
