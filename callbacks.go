package animcore

// Callbacks wraps an EventHandler with a set of user callbacks, each called after the wrapped Handler has processed the
// same event. This is a convenient way to react to a Playback (i.e. play a sound on a specific frame, or switch animations
// once a OneShot has stopped) without writing a new EventHandler. Handler may be nil, in which case the Playback steps
// forward with SetupNextFrame() and stops at the end of its range, just like a Playback without any EventHandler.
type Callbacks struct {
	Handler EventHandler

	// OnPlayed is called whenever the Playback starts playing.
	OnPlayed func(pb *Playback)

	// OnPaused is called whenever the Playback is paused or resumed.
	OnPaused func(pb *Playback)

	// OnStopped is called whenever the Playback stops.
	OnStopped func(pb *Playback)

	// OnNextFramed is called for every frame boundary the Playback crosses, after the next frame has been set up.
	OnNextFramed func(pb *Playback)
}

// NewCallbacks returns a new Callbacks wrapping the given EventHandler.
func NewCallbacks(handler EventHandler) *Callbacks {
	return &Callbacks{Handler: handler}
}

func (cb *Callbacks) OnPlay(pb *Playback) {
	if cb.Handler != nil {
		cb.Handler.OnPlay(pb)
	}
	if cb.OnPlayed != nil {
		cb.OnPlayed(pb)
	}
}

func (cb *Callbacks) OnPause(pb *Playback) {
	if cb.Handler != nil {
		cb.Handler.OnPause(pb)
	}
	if cb.OnPaused != nil {
		cb.OnPaused(pb)
	}
}

func (cb *Callbacks) OnStop(pb *Playback) {
	if cb.Handler != nil {
		cb.Handler.OnStop(pb)
	}
	if cb.OnStopped != nil {
		cb.OnStopped(pb)
	}
}

func (cb *Callbacks) OnNextFrame(pb *Playback) {

	if cb.Handler != nil {
		cb.Handler.OnNextFrame(pb)
	} else {
		pb.stepOnce()
	}

	if cb.OnNextFramed != nil {
		cb.OnNextFramed(pb)
	}

}
