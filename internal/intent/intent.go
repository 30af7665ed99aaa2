// Package intent maps a transcribed command to a structured intent.
package intent

import (
	"regexp"
	"strings"
)

// Intent names.
const (
	Time    = "time"
	Weather = "weather"
	OpenApp = "open_app"
	Search  = "search"
	Respond = "respond"
)

// Intent is the small JSON object produced by the rules or the LLM.
type Intent struct {
	Intent   string `json:"intent"`
	Target   string `json:"target,omitempty"`
	Query    string `json:"query,omitempty"`
	Location string `json:"location,omitempty"`
	Text     string `json:"text,omitempty"`
}

var (
	timeRe     = regexp.MustCompile(`\b(time|clock|what time|date|today's date|what day|day is it)\b`)
	weatherRe  = regexp.MustCompile(`\b(weather|forecast|temperature|how (hot|cold)|degrees)\b`)
	locationRe = regexp.MustCompile(`(?:in|at|for)\s+([a-z\s]+)`)
	whenRe     = regexp.MustCompile(`\s+(today|tomorrow|now)$`)
	openRe     = regexp.MustCompile(`open\s+([a-z0-9\s]+)`)
	searchRe   = regexp.MustCompile(`(?:play|search|find|look for)\s+(.+)`)
	fillerRe   = regexp.MustCompile(`\b(me|for|a|the|some)\b`)
)

type alias struct {
	target  string
	aliases []string
}

// appAliases normalizes spoken app names. Order matters for overlapping aliases.
var appAliases = []alias{
	{"youtube", []string{"youtube", "you tube", "you.tube"}},
	{"netflix", []string{"netflix"}},
	{"spotify", []string{"spotify"}},
	{"google", []string{"google"}},
	{"gmail", []string{"gmail", "google mail"}},
	{"facebook", []string{"facebook", "fb"}},
	{"instagram", []string{"instagram", "insta"}},
	{"twitter", []string{"twitter", "x.com", "tweet"}},
	{"tiktok", []string{"tiktok", "tik tok", "tik-tok"}},
	{"amazon", []string{"amazon"}},
}

type canned struct {
	re   *regexp.Regexp
	text string
}

// responses are checked in order; the first match wins.
var responses = []canned{
	{regexp.MustCompile(`\b(hi|hello|hey|hey there)\b`), "Hi! I'm Aura How can I help?"},
	{regexp.MustCompile(`\bhow are you\b`), "Feeling great! Ready to help"},
	{regexp.MustCompile(`\bthank`), "You're welcome!"},
	{regexp.MustCompile(`\bjoke\b`), "Why don't scientists trust atoms? They make up everything!"},
	{regexp.MustCompile(`\bweather\b`), "I don't have live weather access yet, but I'd love to help soon!"},
	{regexp.MustCompile(`\bhelp\b`), "I can open apps, play music, tell time, or just chat!"},
	{regexp.MustCompile(`\byour name\b`), "I'm Aura, your AI assistant!"},
	{regexp.MustCompile(`\bwho are you\b`), "I'm Aura, your AI assistant!"},
}

// Match applies the fast rules. It returns nil when no rule matches and the
// LLM should decide.
func Match(text string) *Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return nil
	}

	if timeRe.MatchString(t) {
		return &Intent{Intent: Time}
	}

	if weatherRe.MatchString(t) {
		in := &Intent{Intent: Weather}
		if m := locationRe.FindStringSubmatch(t); m != nil {
			loc := strings.TrimSpace(m[1])
			in.Location = strings.TrimSpace(whenRe.ReplaceAllString(loc, ""))
		}
		return in
	}

	if m := openRe.FindStringSubmatch(t); m != nil {
		return &Intent{Intent: OpenApp, Target: normalizeApp(strings.TrimSpace(m[1]))}
	}

	if m := searchRe.FindStringSubmatch(t); m != nil {
		query := fillerRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
		return &Intent{Intent: Search, Query: strings.Join(strings.Fields(query), " ")}
	}

	for _, r := range responses {
		if r.re.MatchString(t) {
			return &Intent{Intent: Respond, Text: r.text}
		}
	}

	return nil
}

func normalizeApp(name string) string {
	for _, a := range appAliases {
		if name == a.target {
			return a.target
		}
		for _, al := range a.aliases {
			if name == al {
				return a.target
			}
		}
	}
	return name
}
