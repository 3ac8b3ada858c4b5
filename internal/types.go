package internal

import "fmt"

// ItemState is the position of one video in the batch pipeline
type ItemState int

const (
	StatePending ItemState = iota
	StateMetadataFetched
	StateMetadataSkipped
	StateAudioReady
	StateTranscriptReady
	StateFailed
)

// String returns a human-readable representation of the state
func (s ItemState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMetadataFetched:
		return "metadata_fetched"
	case StateMetadataSkipped:
		return "metadata_skipped"
	case StateAudioReady:
		return "audio_ready"
	case StateTranscriptReady:
		return "transcript_ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the video will not move any further
func (s ItemState) IsTerminal() bool {
	return s == StateTranscriptReady || s == StateFailed
}

// Item tracks one video identifier through the batch
type Item struct {
	Index    int
	ID       string
	State    ItemState
	Metadata *VideoMetadata

	AudioPath        string
	AudioCached      bool
	TranscriptPath   string
	TranscriptCached bool

	// MetadataErr is informational, Err is what failed the item
	MetadataErr error
	Err         error
}

// Label returns the title when known, the ID otherwise
func (it *Item) Label() string {
	if it.Metadata != nil && it.Metadata.Title != "" {
		return it.Metadata.Title
	}
	return it.ID
}

func (it *Item) fail(err error) {
	it.State = StateFailed
	it.Err = err
}

// String returns a formatted representation of the item
func (it *Item) String() string {
	if it.Err != nil {
		return fmt.Sprintf("Item{id=%s, state=%s, error=%v}", it.ID, it.State, it.Err)
	}
	return fmt.Sprintf("Item{id=%s, state=%s}", it.ID, it.State)
}
