package mcpserver

// MarkerFormatContract describes the session artifact formats that LLM
// consumers should follow when reading or proposing markers.
const MarkerFormatContract = `# classlog Marker Format Contract

Each class session lives in a directory named after its date (` + "`" + `YYYY-MM-DD` + "`" + `).

## markers

One entry per line: a timestamp, a TAB, then the label.

` + "```" + `text
00:00:10	Intro Started
00:01:00	Question of the Day: tabs or spaces?
00:04:00	Intro Ended
00:05:00	#1 Intro | check mic
01:02:03	Raiding somestreamer
` + "```" + `

## Rules

1. **Timestamps** have one to three colon-separated parts (` + "`" + `SS` + "`" + `, ` + "`" + `MM:SS` + "`" + `,
   ` + "`" + `HH:MM:SS` + "`" + `). Parts are whole numbers; no fractions.
2. **Labels** are kept verbatim after the first TAB, including trailing spaces. An empty
   label is allowed but reported by validation as a blank line.
3. **Events** end with ` + "`" + ` Started` + "`" + ` or ` + "`" + ` Ended` + "`" + ` (capitalized). Every start must be
   closed by a matching end before another start; the subject is the word before the suffix.
4. **Slides** are referenced as ` + "`" + `#<number> <title>` + "`" + ` and are 1-based.
5. **Private notes** follow a ` + "`" + `|` + "`" + ` and are stripped before anything is shared.
6. **Public entries** are slide references, ` + "`" + `Question of the Day` + "`" + ` markers and events.
   Everything else (raids, chatter) stays private.
7. Duplicate timestamps keep the last label.

## links

` + "```" + `text
Twitch: https://www.twitch.tv/videos/100
YouTube: https://youtu.be/abc?t=30
YouTube Comment: Ugx123
Slides: https://slides.example.com/deck
` + "```" + `

The ` + "`" + `t=` + "`" + ` value of the YouTube link is the number of seconds the upload starts
after the stream; comment timestamps are shifted back by it.

## captions and chat

- ` + "`" + `captions/<lang>.txt` + "`" + `: ` + "`" + `HH:MM` + "`" + ` lines followed by text lines; the first file
  in name order is used.
- ` + "`" + `chat.json` + "`" + `: Twitch chat export; offsets are measured from the first message.
`
