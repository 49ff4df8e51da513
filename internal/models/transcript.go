// Package models defines the data structures flowing through the call
// pipeline and the event payloads published downstream.
package models

import "time"

// TranscriptResult is the transcription+classification outcome for a single
// audio segment. Produced once per segment and never mutated afterwards.
type TranscriptResult struct {
	Text           string    `json:"text"`
	Intent         Intent    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	ResponseNeeded bool      `json:"response_needed"`
	Timestamp      time.Time `json:"timestamp"`
}

// MergedResult is the reduction of all segment results for one utterance.
// SegmentCount carries the number of segments that yielded usable text.
type MergedResult struct {
	Text           string  `json:"text"`
	Intent         Intent  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	ResponseNeeded bool    `json:"response_needed"`
	SegmentCount   int     `json:"segment_count"`
}

// CallTranscriptEvent is published when an utterance produces a merged
// transcript.
type CallTranscriptEvent struct {
	EventType    string  `json:"eventType"`
	CallID       string  `json:"callId"`
	Text         string  `json:"text"`
	Intent       Intent  `json:"intent"`
	Confidence   float64 `json:"confidence"`
	SegmentCount int     `json:"segmentCount"`
	Timestamp    int64   `json:"timestamp"`
}

// CallTurnEvent is published at the end of every dialog turn.
type CallTurnEvent struct {
	EventType  string `json:"eventType"`
	CallID     string `json:"callId"`
	TurnID     string `json:"turnId"`
	Turn       int    `json:"turn"`
	Intent     Intent `json:"intent"`
	CallerText string `json:"callerText"`
	ReplyText  string `json:"replyText"`
	Timestamp  int64  `json:"timestamp"`
}
