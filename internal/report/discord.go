package report

import (
	"fmt"
	"strings"

	"github.com/starford/classlog/internal/storage"
	"github.com/starford/classlog/internal/timeline"
)

// MaxDiscordMessage bounds the text of one Discord message before fencing.
const MaxDiscordMessage = 1750

const fence = "```"

// DiscordMessages splits the marker listing into code-fenced messages
// short enough to post.
func DiscordMessages(markers *timeline.Map) []string {
	lines := DisplayLines(markers)
	if len(lines) == 0 {
		return nil
	}

	messages := []string{fence}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		latest := messages[len(messages)-1]
		if latest == fence || len(latest)+len(line) <= MaxDiscordMessage {
			messages[len(messages)-1] = latest + "\n" + line
			continue
		}
		messages[len(messages)-1] = latest + "\n" + fence
		messages = append(messages, fence+"\n"+line)
	}
	messages[len(messages)-1] += "\n" + fence
	return messages
}

// DiscordFile names the nth message file.
func DiscordFile(n int) string {
	return fmt.Sprintf("discord-message.%02d", n)
}

// WriteDiscordMessages replaces any previous message files in store with
// msgs and returns the names written.
func WriteDiscordMessages(store storage.Provider, msgs []string) ([]string, error) {
	names, err := store.Names("")
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if strings.HasPrefix(n, "discord-message.") {
			if err := store.Delete(n); err != nil {
				return nil, err
			}
		}
	}

	written := make([]string, 0, len(msgs))
	for i, m := range msgs {
		name := DiscordFile(i)
		if err := store.Write(name, []byte(m)); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}
