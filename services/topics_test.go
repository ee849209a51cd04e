package services

import (
	"reflect"
	"testing"
)

func TestNormalizeTopics(t *testing.T) {
	in := []string{"  AI ", "ai", "Music/Jazz", "", "   ", "music/jazz"}
	want := []string{"ai", "music/jazz"}
	if got := NormalizeTopics(in); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTopics(%v) = %v, want %v", in, got, want)
	}
	if got := NormalizeTopics(nil); got != nil {
		t.Errorf("NormalizeTopics(nil) = %v, want nil", got)
	}
}

func TestTopicCategory(t *testing.T) {
	cases := map[string]string{
		"music/jazz":  "music",
		"Music/Jazz":  "music",
		"music":       "music",
		"/jazz":       "/jazz",
		"music/":      "music",
		"tech/go/web": "tech",
		"":            "",
	}
	for in, want := range cases {
		if got := TopicCategory(in); got != want {
			t.Errorf("TopicCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopicsOverlap(t *testing.T) {
	topic, ok := TopicsOverlap([]string{"cooking", "AI"}, []string{"ai", "travel"})
	if !ok || topic != "ai" {
		t.Errorf("TopicsOverlap = (%q, %v), want (ai, true)", topic, ok)
	}

	if _, ok := TopicsOverlap([]string{"music/jazz"}, []string{"music/rock"}); ok {
		t.Error("TopicsOverlap matched different topics of the same category")
	}
	if _, ok := TopicsOverlap(nil, []string{"ai"}); ok {
		t.Error("TopicsOverlap matched against an empty list")
	}
}

func TestCategoriesOverlap(t *testing.T) {
	category, ok := CategoriesOverlap([]string{"music/jazz"}, []string{"music/rock"})
	if !ok || category != "music" {
		t.Errorf("CategoriesOverlap = (%q, %v), want (music, true)", category, ok)
	}

	// A bare topic is its own category.
	if _, ok := CategoriesOverlap([]string{"music"}, []string{"music/rock"}); !ok {
		t.Error("CategoriesOverlap = false for bare topic vs subtopic, want true")
	}
	if _, ok := CategoriesOverlap([]string{"cooking"}, []string{"philosophy"}); ok {
		t.Error("CategoriesOverlap matched unrelated categories")
	}
}
