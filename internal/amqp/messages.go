package amqp

import (
	"encoding/json"
	"time"
)

// EntryExportMessage asks the export worker to sync one committed entry.
// Only the ID travels; the worker loads the entry from storage.
type EntryExportMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryExportMessage(id string) *EntryExportMessage {
	return &EntryExportMessage{ID: id, Timestamp: time.Now()}
}

func (m *EntryExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryExportMessageFromJSON(data []byte) (*EntryExportMessage, error) {
	var msg EntryExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TranscriptMessage carries one finalized utterance from the speech
// frontend. The transcript is already trimmed and lowercased.
type TranscriptMessage struct {
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTranscriptMessage(sessionID, transcript string) *TranscriptMessage {
	return &TranscriptMessage{SessionID: sessionID, Transcript: transcript, Timestamp: time.Now()}
}

func (m *TranscriptMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TranscriptMessageFromJSON(data []byte) (*TranscriptMessage, error) {
	var msg TranscriptMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SpokenResponseMessage is the utterance the TTS frontend should vocalize.
// A new message for the same session interrupts the previous one.
type SpokenResponseMessage struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSpokenResponseMessage(sessionID, text string) *SpokenResponseMessage {
	return &SpokenResponseMessage{SessionID: sessionID, Text: text, Timestamp: time.Now()}
}

func (m *SpokenResponseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SpokenResponseMessageFromJSON(data []byte) (*SpokenResponseMessage, error) {
	var msg SpokenResponseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
