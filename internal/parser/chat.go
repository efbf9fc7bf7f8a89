package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/classlog/internal/timeline"
)

// ChatMessage is one message of a chat replay export.
type ChatMessage struct {
	CreatedAt   time.Time `json:"created_at"`
	DisplayName string    `json:"display_name"`
	Body        string    `json:"body"`
}

// ChatTranscript is a chat replay anchored at its first message.
type ChatTranscript struct {
	Started  time.Time     `json:"started"`
	Messages []ChatMessage `json:"messages"`
}

type rawChatMessage struct {
	CreatedAt string `json:"created_at"`
	Commenter struct {
		DisplayName string `json:"display_name"`
	} `json:"commenter"`
	Message struct {
		Body string `json:"body"`
	} `json:"message"`
}

// ParseChat decodes a chat.json export.
func ParseChat(data []byte) (*ChatTranscript, error) {
	var raw []rawChatMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("chat json: %w", err)}
	}

	tr := &ChatTranscript{Messages: make([]ChatMessage, 0, len(raw))}
	for i, r := range raw {
		ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: r.CreatedAt, Err: fmt.Errorf("message %d created_at: %w", i, err)}
		}
		tr.Messages = append(tr.Messages, ChatMessage{
			CreatedAt:   ts,
			DisplayName: r.Commenter.DisplayName,
			Body:        r.Message.Body,
		})
	}
	if len(tr.Messages) > 0 {
		tr.Started = tr.Messages[0].CreatedAt
	}
	return tr, nil
}

// Map keys each message by its offset from the first message, labelled
// "<name>: <body>".
func (c *ChatTranscript) Map() *timeline.Map {
	m := timeline.New()
	if c == nil {
		return m
	}
	for _, msg := range c.Messages {
		m.Set(msg.CreatedAt.Sub(c.Started), msg.DisplayName+": "+msg.Body)
	}
	return m
}
