package intent

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Intent
	}{
		{name: "empty", text: "   ", want: nil},
		{name: "time", text: "What time is it?", want: &Intent{Intent: Time}},
		{name: "date", text: "what's today's date", want: &Intent{Intent: Time}},
		{name: "day", text: "which day is it", want: &Intent{Intent: Time}},
		{name: "weather without location", text: "what's the weather", want: &Intent{Intent: Weather}},
		{name: "weather with location", text: "weather in new york today", want: &Intent{Intent: Weather, Location: "new york"}},
		{name: "temperature", text: "how hot is it for london", want: &Intent{Intent: Weather, Location: "london"}},
		{name: "open alias", text: "open you tube", want: &Intent{Intent: OpenApp, Target: "youtube"}},
		{name: "open insta", text: "please open insta", want: &Intent{Intent: OpenApp, Target: "instagram"}},
		{name: "open unknown", text: "open wikipedia", want: &Intent{Intent: OpenApp, Target: "wikipedia"}},
		{name: "open gmail", text: "open google mail", want: &Intent{Intent: OpenApp, Target: "gmail"}},
		{name: "play", text: "play me some jazz", want: &Intent{Intent: Search, Query: "jazz"}},
		{name: "search", text: "search for the bad guy", want: &Intent{Intent: Search, Query: "bad guy"}},
		{name: "look for", text: "look for cat videos", want: &Intent{Intent: Search, Query: "cat videos"}},
		{name: "greeting", text: "Hello there", want: &Intent{Intent: Respond, Text: "Hi! I'm Aura How can I help?"}},
		{name: "how are you", text: "how are you doing", want: &Intent{Intent: Respond, Text: "Feeling great! Ready to help"}},
		{name: "thanks", text: "thanks a lot", want: &Intent{Intent: Respond, Text: "You're welcome!"}},
		{name: "joke", text: "tell me a joke", want: &Intent{Intent: Respond, Text: "Why don't scientists trust atoms? They make up everything!"}},
		{name: "help", text: "can you help", want: &Intent{Intent: Respond, Text: "I can open apps, play music, tell time, or just chat!"}},
		{name: "name", text: "what is your name", want: &Intent{Intent: Respond, Text: "I'm Aura, your AI assistant!"}},
		{name: "who", text: "who are you", want: &Intent{Intent: Respond, Text: "I'm Aura, your AI assistant!"}},
		{name: "no match", text: "explain quantum physics", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.text)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected %+v, got no match", tt.want)
			}
			if *got != *tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTimeRuleWinsOverGreeting(t *testing.T) {
	got := Match("hey what time is it")
	if got == nil || got.Intent != Time {
		t.Errorf("Expected time intent, got %+v", got)
	}
}
