package services

import "strings"

// Topic matching helpers. Topics are free-form strings like "music" or
// "music/jazz"; the part before the slash is the category used for relaxed
// matching.

// NormalizeTopic lowercases and trims a topic string
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// NormalizeTopics normalizes a topic list, dropping empties and duplicates
// while preserving order
func NormalizeTopics(topics []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range topics {
		n := NormalizeTopic(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// TopicCategory returns the category part of a topic ("music/jazz" -> "music")
func TopicCategory(topic string) string {
	n := NormalizeTopic(topic)
	if i := strings.Index(n, "/"); i > 0 {
		return n[:i]
	}
	return n
}

// TopicsOverlap reports whether two topic lists share an exact topic,
// returning the first shared topic in a's order
func TopicsOverlap(a, b []string) (string, bool) {
	set := map[string]struct{}{}
	for _, t := range b {
		set[NormalizeTopic(t)] = struct{}{}
	}
	for _, t := range a {
		n := NormalizeTopic(t)
		if n == "" {
			continue
		}
		if _, ok := set[n]; ok {
			return n, true
		}
	}
	return "", false
}

// CategoriesOverlap reports whether two topic lists share a category,
// returning the first shared category in a's order
func CategoriesOverlap(a, b []string) (string, bool) {
	set := map[string]struct{}{}
	for _, t := range b {
		if c := TopicCategory(t); c != "" {
			set[c] = struct{}{}
		}
	}
	for _, t := range a {
		c := TopicCategory(t)
		if c == "" {
			continue
		}
		if _, ok := set[c]; ok {
			return c, true
		}
	}
	return "", false
}
