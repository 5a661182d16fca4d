package domain

// TurnResult is everything one orchestrator run hands back for rendering.
// A nil Audio or Image means the enhancement was not produced.
type TurnResult struct {
	Transcript Transcript
	Mode       Mode
	Reply      string
	Fallback   bool
	Audio      []byte
	Image      []byte
}

func (r TurnResult) HasAudio() bool {
	return len(r.Audio) > 0
}

func (r TurnResult) HasImage() bool {
	return len(r.Image) > 0
}
