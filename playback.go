package animcore

// PlaybackState represents the state of a Playback.
type PlaybackState int

const (
	PlaybackStopped PlaybackState = iota // PlaybackStopped is both the initial state and the state a Playback returns to once it's stopped.
	PlaybackPlaying                      // PlaybackPlaying means the Playback advances when updated.
	PlaybackPaused                       // PlaybackPaused means the Playback keeps its frames, but doesn't advance when updated.
)

// String returns the name of the PlaybackState.
func (state PlaybackState) String() string {
	switch state {
	case PlaybackStopped:
		return "Stopped"
	case PlaybackPlaying:
		return "Playing"
	case PlaybackPaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Playback drives the process of playing an animation. It doesn't store any keyframes or transforms; it only tracks
// which two frames are currently being blended and by how much.
//
// No matter what direction the Playback moves in, the blend between frames is always:
//
//	from := playback.Frame
//	to := playback.NextFrame
//	result := lerp(keyframes[from], keyframes[to], playback.Interpolator)
//
// When playing forward, NextFrame is the frame that has not been reached yet; when playing backward, Frame is.
type Playback struct {
	FirstFrame   int     // The first frame of the played range. It may be greater than LastFrame.
	LastFrame    int     // The last frame of the played range. It may be less than FirstFrame.
	Frame        int     // The frame blended from.
	NextFrame    int     // The frame blended to.
	Interpolator float64 // The blend factor between Frame and NextFrame, in the range [0, 1).
	Speed        float64 // Speed in frames per second. A negative speed plays backward. Defaults to 1.

	state        PlaybackState
	eventHandler EventHandler
}

// NewPlayback returns a new, stopped Playback with a speed of 1 frame per second. handler is the initial EventHandler
// and may be nil, in which case the Playback steps through its range once and stops.
func NewPlayback(handler EventHandler) *Playback {
	return &Playback{
		Speed:        1,
		eventHandler: handler,
	}
}

// Play starts playing the frames from first to last at the given speed. If handler is nil, the previous EventHandler is kept.
// The EventHandler receives OnPlay first; if the Playback is still playing afterwards, it receives a single OnNextFrame to
// set up the next frame. Without an EventHandler, the next frame is set up by SetupNextFrame().
func (pb *Playback) Play(first, last int, speed float64, handler EventHandler) {

	pb.FirstFrame = first
	pb.LastFrame = last
	pb.Frame = first

	pb.Interpolator = 0
	pb.Speed = speed
	pb.state = PlaybackPlaying

	if handler != nil {
		pb.eventHandler = handler
	}

	if pb.eventHandler != nil {
		pb.eventHandler.OnPlay(pb)
		if pb.IsPlaying() {
			pb.eventHandler.OnNextFrame(pb)
		}
	} else {
		pb.SetupNextFrame()
	}

}

// PlayRange is Play using the Playback's current speed.
func (pb *Playback) PlayRange(first, last int, handler EventHandler) {
	pb.Play(first, last, pb.Speed, handler)
}

// Replay is Play using the Playback's current frame range and speed.
func (pb *Playback) Replay(handler EventHandler) {
	pb.Play(pb.FirstFrame, pb.LastFrame, pb.Speed, handler)
}

// Pause pauses (paused = true) or resumes (paused = false) the Playback. Only a playing Playback can be paused, and only a
// paused Playback can be resumed; anything else does nothing.
func (pb *Playback) Pause(paused bool) {
	if paused {
		if pb.state == PlaybackPlaying {
			pb.changePauseState(PlaybackPaused)
		}
	} else if pb.state == PlaybackPaused {
		pb.changePauseState(PlaybackPlaying)
	}
}

func (pb *Playback) changePauseState(state PlaybackState) {
	pb.state = state
	if pb.eventHandler != nil {
		pb.eventHandler.OnPause(pb)
	}
}

// Stop stops the Playback. OnStop is only sent if the Playback was playing or paused.
func (pb *Playback) Stop() {
	if pb.state != PlaybackStopped {
		pb.state = PlaybackStopped
		if pb.eventHandler != nil {
			pb.eventHandler.OnStop(pb)
		}
	}
}

// Update advances the Playback by deltaTime seconds, which should be the time elapsed since the previously rendered frame
// (i.e. 1.0 / 60.0 at 60 FPS). Nothing happens if the Playback isn't playing or deltaTime isn't positive.
//
// Every frame boundary crossed during the update is visited individually, so an EventHandler receives one OnNextFrame per
// frame even if a large deltaTime or speed skips several frames at once. The boundaries are visited until Interpolator is
// back within [0, 1), even if an event stops or pauses the Playback along the way.
func (pb *Playback) Update(deltaTime float64) {

	if pb.state != PlaybackPlaying || deltaTime <= 0 {
		return
	}

	pb.Interpolator += deltaTime * pb.Speed

	if pb.IsForward() {

		for pb.Interpolator >= 1 {
			pb.Interpolator -= 1
			pb.Frame = pb.NextFrame
			pb.advance()
		}

	} else {

		for pb.Interpolator <= 0 {
			pb.Interpolator += 1
			pb.NextFrame = pb.Frame
			pb.advance()
		}

	}

}

// advance picks the next frame after a frame boundary has been crossed.
func (pb *Playback) advance() {
	if pb.eventHandler != nil {
		pb.eventHandler.OnNextFrame(pb)
		return
	}
	pb.stepOnce()
}

// stepOnce is the stepping used without an EventHandler: the Playback stops at the end of its range and holds there.
func (pb *Playback) stepOnce() {
	if pb.HasEndReached() {
		pb.Stop()
	} else {
		pb.SetupNextFrame()
	}
}

// SetupNextFrameIndex sets the frame that hasn't been reached yet: NextFrame when playing forward, Frame when playing backward.
func (pb *Playback) SetupNextFrameIndex(index int) {
	if pb.IsForward() {
		pb.NextFrame = index
	} else {
		pb.Frame = index
	}
}

// SetupNextFrame steps the frame that hasn't been reached yet by one, depending on the playback direction and on the
// chronology of the frame range. The range itself (FirstFrame and LastFrame) is not checked here.
func (pb *Playback) SetupNextFrame() {
	if pb.IsForward() {
		if pb.AreFramesChrono() {
			pb.NextFrame = pb.Frame + 1
		} else {
			pb.NextFrame = pb.Frame - 1
		}
	} else {
		if pb.AreFramesChrono() {
			pb.Frame = pb.Frame - 1
		} else {
			pb.Frame = pb.Frame + 1
		}
	}
}

// HasEndReached returns true if Frame has reached the end of the range, depending on the playback direction and chronology.
func (pb *Playback) HasEndReached() bool {
	if pb.IsForward() {
		if pb.AreFramesChrono() {
			return pb.Frame >= pb.LastFrame
		}
		return pb.Frame <= pb.LastFrame
	}
	if pb.AreFramesChrono() {
		return pb.Frame <= pb.FirstFrame
	}
	return pb.Frame >= pb.FirstFrame
}

// State returns the PlaybackState.
func (pb *Playback) State() PlaybackState {
	return pb.state
}

// EventHandler returns the current EventHandler, which may be nil.
func (pb *Playback) EventHandler() EventHandler {
	return pb.eventHandler
}

// AreFramesChrono returns true if the frame range is chronological (FirstFrame <= LastFrame). This says nothing about the
// direction of playback.
func (pb *Playback) AreFramesChrono() bool {
	return pb.FirstFrame <= pb.LastFrame
}

// IsForward returns true if the Playback moves forward (Speed >= 0).
func (pb *Playback) IsForward() bool {
	return pb.Speed >= 0
}

// IsPlaying returns true if the Playback isn't stopped; a paused Playback is still playing.
func (pb *Playback) IsPlaying() bool {
	return pb.state != PlaybackStopped
}
