// Package actions turns an intent into the sentence Aura speaks back,
// opening the browser where the intent asks for it.
package actions

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aura/internal/intent"
)

// Fixed answers.
const (
	MissingIntentText = "I had trouble understanding that request."
	UnknownIntentText = "I'm still learning! I can't handle that request yet."
	NoAppText         = "Which app would you like me to open?"
	NoQueryText       = "What would you like me to search for?"
	EmptyRespondText  = "Okay."
	WeatherNoLocation = "Showing current weather forecast"

	clockLayout = "03:04 PM"
	dateLayout  = "Monday, January 02"
)

var (
	locationPrefixRe = regexp.MustCompile(`^(in|at|for|the)\s+`)
	targetSuffixRe   = regexp.MustCompile(`\s+(website|app|application|site|page|dot com)$`)
)

// domains maps known app targets to the site that is opened.
var domains = map[string]string{
	"youtube":   "youtube.com",
	"netflix":   "netflix.com",
	"spotify":   "open.spotify.com",
	"google":    "google.com",
	"gmail":     "mail.google.com",
	"facebook":  "facebook.com",
	"instagram": "instagram.com",
	"twitter":   "twitter.com",
	"tiktok":    "tiktok.com",
	"amazon":    "amazon.com",
}

// Router executes intents.
type Router struct {
	opener Opener
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the time source used by the time intent.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// NewRouter creates a router. A nil opener disables browser side effects.
func NewRouter(opener Opener, logger *zap.Logger, opts ...Option) *Router {
	if opener == nil {
		opener = NopOpener{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		opener: opener,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle runs the intent and returns the response text.
func (r *Router) Handle(in *intent.Intent) string {
	if in == nil {
		return MissingIntentText
	}

	switch in.Intent {
	case intent.Time:
		now := r.now()
		return fmt.Sprintf("It's %s on %s.", now.Format(clockLayout), now.Format(dateLayout))

	case intent.Weather:
		loc := strings.ToLower(strings.TrimSpace(in.Location))
		loc = strings.TrimSpace(locationPrefixRe.ReplaceAllString(loc, ""))
		if loc == "" {
			r.open("https://www.google.com/search?q=weather")
			return WeatherNoLocation
		}
		r.open("https://www.google.com/search?q=" + queryEscape("weather in "+loc))
		return "Showing weather for " + title(loc)

	case intent.OpenApp:
		target := strings.ToLower(strings.TrimSpace(in.Target))
		target = strings.TrimSpace(targetSuffixRe.ReplaceAllString(target, ""))
		if target == "" {
			return NoAppText
		}
		domain, known := domains[target]
		if !known {
			domain = target + ".com"
		}
		r.open("https://" + domain)
		if known {
			return "Opening " + title(target)
		}
		return "Opening " + target

	case intent.Search:
		q := strings.TrimSpace(in.Query)
		if q == "" {
			return NoQueryText
		}
		r.open("https://www.youtube.com/results?search_query=" + queryEscape(q))
		return fmt.Sprintf("Playing %s on YouTube", q)

	case intent.Respond:
		if in.Text == "" {
			return EmptyRespondText
		}
		return in.Text
	}

	r.logger.Debug("Unhandled intent", zap.String("intent", in.Intent))
	return UnknownIntentText
}

func (r *Router) open(link string) {
	if err := r.opener.Open(link); err != nil {
		r.logger.Warn("Failed to open browser", zap.String("url", link), zap.Error(err))
		return
	}
	r.logger.Info("Opened browser", zap.String("url", link))
}

// title upper-cases each word. A Caser keeps state, so one is made per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// queryEscape escapes a query value, keeping %20 for spaces.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
