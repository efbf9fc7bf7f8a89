package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/starford/classlog/internal/checksum"
	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/storage"
)

// HashFile is the name of the comment state file in the output directory.
const HashFile = "youtube-comment-hashes.json"

// CommentHash is the last comment text posted for a video, and whether the
// posted text was read back and matched.
type CommentHash struct {
	Hash     string
	Verified bool
}

// MarshalJSON encodes the hash as a ["hash", verified] pair.
func (h CommentHash) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{h.Hash, h.Verified})
}

// UnmarshalJSON decodes a ["hash", verified] pair.
func (h *CommentHash) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("report: comment hash: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &h.Hash); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &h.Verified)
}

// HashState maps a YouTube comment id to its last posted hash.
type HashState map[string]CommentHash

// LoadHashState reads the state file; a missing file is an empty state.
func LoadHashState(store storage.Provider) (HashState, error) {
	data, err := store.Read(HashFile)
	if errors.Is(err, fs.ErrNotExist) {
		return HashState{}, nil
	}
	if err != nil {
		return nil, err
	}
	state := HashState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("report: %s: %w", HashFile, err)
	}
	return state, nil
}

// Save writes the state file.
func (h HashState) Save(store storage.Provider) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return store.Write(HashFile, data)
}

// HashComment fingerprints comment text.
func HashComment(text string) string {
	return checksum.Sum([]byte(text))
}

// PendingComment is a YouTube comment whose text no longer matches what
// was last posted, or was posted but not yet verified.
type PendingComment struct {
	Session    session.Session `json:"session"`
	CommentID  string          `json:"comment_id"`
	Hash       string          `json:"hash"`
	Text       string          `json:"text"`
	JustVerify bool            `json:"just_verify"`
}

// PendingComments lists the sessions with a YouTube comment link whose
// generated comment differs from state. Sessions whose markers fail to
// parse are skipped and their errors joined.
func PendingComments(loader *session.Loader, sessions []session.Session, state HashState) ([]PendingComment, error) {
	var (
		out  []PendingComment
		errs []error
	)
	for _, s := range sessions {
		cid := s.Links[parser.YouTubeComment]
		if cid == "" {
			continue
		}
		markers, err := loader.Markers(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !markers.Present() {
			continue
		}
		text := Comment(YouTubeMarkers(s, markers.Value))
		hash := HashComment(text)

		prev, seen := state[cid]
		if seen && prev.Hash == hash && prev.Verified {
			continue
		}
		out = append(out, PendingComment{
			Session:    s,
			CommentID:  cid,
			Hash:       hash,
			Text:       text,
			JustVerify: seen && prev.Hash == hash && !prev.Verified,
		})
	}
	return out, errors.Join(errs...)
}
