package animcore

// EventHandler receives the events posted by a Playback. Events are posted from within Playback.Play, Pause, Stop and
// Update; by the time an event arrives, the Playback is already configured for it.
//
// OnNextFrame is posted whenever a frame boundary is crossed, and is expected to set up the next frame (see
// Playback.SetupNextFrame and Playback.SetupNextFrameIndex). Depending on the playback speed it can be posted several
// times in a single Playback.Update call, so every single frame can be examined no matter how fast the Playback plays.
//
// An EventHandler that keeps no state of its own may be shared by any number of Playbacks.
type EventHandler interface {
	OnPlay(pb *Playback)
	OnPause(pb *Playback)
	OnStop(pb *Playback)
	OnNextFrame(pb *Playback)
}

// NopEventHandler implements every EventHandler event as a no-op. Embed it to only implement the events you need.
type NopEventHandler struct{}

func (NopEventHandler) OnPlay(pb *Playback)      {}
func (NopEventHandler) OnPause(pb *Playback)     {}
func (NopEventHandler) OnStop(pb *Playback)      {}
func (NopEventHandler) OnNextFrame(pb *Playback) {}

// OneShot plays the frame range once and then stops the Playback.
type OneShot struct{ NopEventHandler }

func (OneShot) OnNextFrame(pb *Playback) {
	if pb.HasEndReached() {
		pb.Stop()
	} else {
		pb.SetupNextFrame()
	}
}

// Loop plays the frame range over and over. Once the end is reached, the next frame jumps back to the opposite end of the
// range (FirstFrame when playing forward, LastFrame when playing backward).
type Loop struct{ NopEventHandler }

func (Loop) OnNextFrame(pb *Playback) {
	if pb.HasEndReached() {
		if pb.IsForward() {
			pb.SetupNextFrameIndex(pb.FirstFrame)
		} else {
			pb.SetupNextFrameIndex(pb.LastFrame)
		}
	} else {
		pb.SetupNextFrame()
	}
}

// PingPongLoop plays the frame range back and forth. Once the end is reached, FirstFrame and LastFrame are swapped; the
// speed keeps its sign, so it's the flipped chronology of the range that turns the Playback around.
type PingPongLoop struct{ NopEventHandler }

func (PingPongLoop) OnNextFrame(pb *Playback) {
	if pb.HasEndReached() {
		pb.FirstFrame, pb.LastFrame = pb.LastFrame, pb.FirstFrame
	}
	pb.SetupNextFrame()
}

// ListLoop plays an explicit, possibly non-contiguous list of frames over and over (i.e. hand-authored loop points).
//
// ListLoop keeps a cursor into Frames, so unlike the other strategies it must not be shared between Playbacks that
// progress independently of each other; create one ListLoop per Playback with NewListLoop.
type ListLoop struct {
	NopEventHandler
	Frames []int
	cursor int
}

// NewListLoop returns a new ListLoop playing the given frames in order.
func NewListLoop(frames ...int) *ListLoop {
	return &ListLoop{Frames: append([]int(nil), frames...)}
}

// OnPlay places the cursor on the Playback's current frame, or on the first list entry if that frame isn't in the list.
func (list *ListLoop) OnPlay(pb *Playback) {
	list.cursor = 0
	for i, frame := range list.Frames {
		if frame == pb.Frame {
			list.cursor = i
			break
		}
	}
}

func (list *ListLoop) OnNextFrame(pb *Playback) {

	count := len(list.Frames)

	if count == 0 {
		pb.SetupNextFrame()
		return
	}

	if count >= 2 {
		if pb.IsForward() {
			list.cursor = (list.cursor + 1) % count
		} else {
			list.cursor = (list.cursor - 1 + count) % count
		}
	} else {
		list.cursor = 0
	}

	pb.SetupNextFrameIndex(list.Frames[list.cursor])

}

// Cursor returns the index into Frames of the frame that was set up last.
func (list *ListLoop) Cursor() int {
	return list.cursor
}
