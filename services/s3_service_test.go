package services

import "testing"

func TestRecordingKey(t *testing.T) {
	key := recordingKey("session-1", "call.webm", testStart)
	want := "recordings/session-1/20250601120000-call.webm"
	if key != want {
		t.Errorf("recordingKey = %q, want %q", key, want)
	}
}
