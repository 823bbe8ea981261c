package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds sharing the sync queue.
const (
	TypeSync   = "sync"
	TypeDelete = "delete"
)

// EntrySyncMessage is a lightweight notification that a collection entry
// needs exporting. It carries only the ID and version; the worker fetches
// the full entry from the database.
type EntrySyncMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id, version int64) *EntrySyncMessage {
	return &EntrySyncMessage{
		Type:      TypeSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EntryDeleteMessage notifies the worker that an entry was removed and
// any exported row should be reconciled.
type EntryDeleteMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryDeleteMessage(id int64) *EntryDeleteMessage {
	return &EntryDeleteMessage{Type: TypeDelete, ID: id, Timestamp: time.Now()}
}

func (m *EntryDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryDeleteMessageFromJSON(data []byte) (*EntryDeleteMessage, error) {
	var msg EntryDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
