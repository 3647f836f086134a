package animcore

import (
	"math"
	"testing"
)

func BenchmarkPlaybackUpdate(b *testing.B) {

	b.ReportAllocs()

	pb := NewPlayback(Loop{})
	pb.Play(0, 120, 60, nil)

	for i := 0; i < b.N; i++ {
		pb.Update(1.0 / 60.0)
	}

}

func TestPlaybackDirection(t *testing.T) {

	pb := NewPlayback(nil)

	for _, speed := range []float64{0, 0.5, 1, 24, math.MaxFloat64} {
		pb.Speed = speed
		if !pb.IsForward() {
			t.Errorf("speed %v should play forward", speed)
		}
	}

	for _, speed := range []float64{-0.001, -1, -24, -math.MaxFloat64} {
		pb.Speed = speed
		if pb.IsForward() {
			t.Errorf("speed %v should play backward", speed)
		}
	}

}

func TestPlaybackChronology(t *testing.T) {

	pb := NewPlayback(nil)

	ranges := [][2]int{{0, 0}, {0, 9}, {9, 0}, {3, 4}, {4, 3}}

	for _, speed := range []float64{1, -1} {
		for _, r := range ranges {
			pb.FirstFrame, pb.LastFrame = r[0], r[1]
			pb.Speed = speed
			if pb.AreFramesChrono() != (r[0] <= r[1]) {
				t.Errorf("range %v at speed %v: AreFramesChrono() = %v", r, speed, pb.AreFramesChrono())
			}
		}
	}

}

func TestPlaybackLargeStep(t *testing.T) {

	calls := 0
	cb := NewCallbacks(Loop{})
	cb.OnNextFramed = func(pb *Playback) { calls++ }

	pb := NewPlayback(cb)
	pb.Play(0, 9, 1, nil)

	// Priming the next frame within Play() counts as one call.
	if calls != 1 {
		t.Fatalf("Play() should set up the next frame once, got %d calls", calls)
	}

	calls = 0
	pb.Update(3.5)

	if calls != 3 {
		t.Errorf("expected 3 OnNextFrame calls, got %d", calls)
	}

	if pb.Interpolator != 0.5 {
		t.Errorf("expected interpolator 0.5, got %v", pb.Interpolator)
	}

	if pb.Frame != 3 || pb.NextFrame != 4 {
		t.Errorf("expected frames 3 -> 4, got %d -> %d", pb.Frame, pb.NextFrame)
	}

}

func TestPlaybackUpdateIgnored(t *testing.T) {

	pb := NewPlayback(Loop{})

	pb.Update(1)
	if pb.State() != PlaybackStopped || pb.Frame != 0 || pb.Interpolator != 0 {
		t.Fatal("a stopped Playback shouldn't advance")
	}

	pb.Play(0, 9, 1, nil)

	pb.Update(0)
	pb.Update(-1)
	if pb.Frame != 0 || pb.Interpolator != 0 {
		t.Fatal("a non-positive delta time shouldn't advance the Playback")
	}

	pb.Pause(true)
	pb.Update(5)
	if pb.Frame != 0 || pb.Interpolator != 0 {
		t.Fatal("a paused Playback shouldn't advance")
	}

}

func TestPlaybackStateTransitions(t *testing.T) {

	plays, pauses, stops := 0, 0, 0

	cb := NewCallbacks(Loop{})
	cb.OnPlayed = func(pb *Playback) { plays++ }
	cb.OnPaused = func(pb *Playback) { pauses++ }
	cb.OnStopped = func(pb *Playback) { stops++ }

	pb := NewPlayback(cb)

	if pb.State() != PlaybackStopped {
		t.Fatal("a new Playback should be stopped")
	}

	pb.Pause(true)
	pb.Pause(false)
	pb.Stop()
	if pb.State() != PlaybackStopped || pauses != 0 || stops != 0 {
		t.Fatal("pausing, resuming or stopping a stopped Playback should do nothing")
	}

	pb.Play(0, 3, 1, nil)
	if pb.State() != PlaybackPlaying || plays != 1 {
		t.Fatal("Play() should start playing and fire OnPlay once")
	}

	pb.Pause(false)
	if pb.State() != PlaybackPlaying || pauses != 0 {
		t.Fatal("resuming a playing Playback should do nothing")
	}

	pb.Pause(true)
	pb.Pause(true)
	if pb.State() != PlaybackPaused || pauses != 1 {
		t.Fatalf("pausing twice should fire OnPause once, got %d", pauses)
	}

	if !pb.IsPlaying() {
		t.Fatal("a paused Playback still counts as playing")
	}

	pb.Pause(false)
	if pb.State() != PlaybackPlaying || pauses != 2 {
		t.Fatal("resuming a paused Playback should fire OnPause")
	}

	pb.Stop()
	pb.Stop()
	if pb.State() != PlaybackStopped || stops != 1 {
		t.Fatalf("stopping twice should fire OnStop once, got %d", stops)
	}

	if plays != 1 {
		t.Fatalf("stopping shouldn't fire OnPlay, got %d plays", plays)
	}

}

func TestPlaybackKeepsHandlerAndSpeed(t *testing.T) {

	pb := NewPlayback(nil)
	pb.Play(0, 4, 2, PingPongLoop{})

	pb.PlayRange(1, 3, nil)
	if _, ok := pb.EventHandler().(PingPongLoop); !ok {
		t.Fatalf("PlayRange() with a nil handler should keep the previous one, got %T", pb.EventHandler())
	}
	if pb.Speed != 2 || pb.FirstFrame != 1 || pb.LastFrame != 3 || pb.Frame != 1 {
		t.Fatal("PlayRange() should keep the speed and restart from the first frame")
	}

	pb.Update(1)
	pb.Replay(Loop{})
	if _, ok := pb.EventHandler().(Loop); !ok {
		t.Fatal("Replay() should switch to the given handler")
	}
	if pb.Frame != pb.FirstFrame || pb.Interpolator != 0 {
		t.Fatal("Replay() should restart the range")
	}

}

func TestPlaybackWithoutHandler(t *testing.T) {

	pb := NewPlayback(nil)
	pb.Play(0, 2, 1, nil)

	if pb.NextFrame != 1 {
		t.Fatalf("expected the next frame to be 1, got %d", pb.NextFrame)
	}

	pb.Update(1)
	if pb.Frame != 1 || pb.State() != PlaybackPlaying {
		t.Fatalf("expected to play frame 1, got frame %d (%s)", pb.Frame, pb.State())
	}

	pb.Update(1)
	if pb.Frame != 2 || pb.State() != PlaybackStopped {
		t.Fatal("a Playback without handler should stop once it reaches the end")
	}

	pb.Update(1)
	if pb.Frame != 2 {
		t.Fatal("a stopped Playback shouldn't advance")
	}

}

func TestPlaybackStopWithinUpdate(t *testing.T) {

	for _, handler := range []EventHandler{OneShot{}, nil} {

		pb := NewPlayback(handler)
		pb.Play(0, 4, 1, nil)
		pb.Update(10)

		if pb.State() != PlaybackStopped || pb.Frame != 4 || pb.NextFrame != 4 {
			t.Fatalf("handler %T: expected to stop on frame 4, got %d -> %d (%s)", handler, pb.Frame, pb.NextFrame, pb.State())
		}

		if pb.Interpolator < 0 || pb.Interpolator >= 1 {
			t.Errorf("handler %T: interpolator should stay within [0, 1) after stopping, got %v", handler, pb.Interpolator)
		}

	}

}

func TestPlaybackPauseWithinUpdate(t *testing.T) {

	calls := 0
	cb := NewCallbacks(Loop{})
	cb.OnNextFramed = func(pb *Playback) {
		calls++
		if calls == 2 {
			pb.Pause(true)
		}
	}

	pb := NewPlayback(cb)
	pb.Play(0, 9, 1, nil)
	calls = 0

	pb.Update(5.5)

	if calls != 5 || pb.State() != PlaybackPaused || pb.Frame != 5 {
		t.Fatalf("expected every boundary to be visited, got %d calls on frame %d (%s)", calls, pb.Frame, pb.State())
	}

	if pb.Interpolator != 0.5 {
		t.Errorf("expected interpolator 0.5, got %v", pb.Interpolator)
	}

	pb.Pause(false)
	pb.Update(0.01)

	if calls != 5 || pb.Frame != 5 {
		t.Fatalf("resuming shouldn't replay boundaries crossed before the pause, got %d calls on frame %d", calls, pb.Frame)
	}

}

func TestPlaybackSetupNextFrame(t *testing.T) {

	pb := NewPlayback(nil)
	pb.Frame = 5
	pb.NextFrame = 5

	// Forward, chronological
	pb.FirstFrame, pb.LastFrame, pb.Speed = 0, 9, 1
	pb.SetupNextFrame()
	if pb.NextFrame != 6 || pb.Frame != 5 {
		t.Error("forward chronological playback should step NextFrame up")
	}

	// Forward, reversed range
	pb.FirstFrame, pb.LastFrame, pb.NextFrame = 9, 0, 5
	pb.SetupNextFrame()
	if pb.NextFrame != 4 || pb.Frame != 5 {
		t.Error("forward reversed playback should step NextFrame down")
	}

	// Backward, chronological
	pb.FirstFrame, pb.LastFrame, pb.Speed, pb.NextFrame = 0, 9, -1, 5
	pb.SetupNextFrame()
	if pb.Frame != 4 || pb.NextFrame != 5 {
		t.Error("backward chronological playback should step Frame down")
	}

	// Backward, reversed range
	pb.FirstFrame, pb.LastFrame, pb.Frame = 9, 0, 5
	pb.SetupNextFrame()
	if pb.Frame != 6 || pb.NextFrame != 5 {
		t.Error("backward reversed playback should step Frame up")
	}

	pb.Speed = 1
	pb.SetupNextFrameIndex(7)
	if pb.NextFrame != 7 {
		t.Error("SetupNextFrameIndex() should set NextFrame when playing forward")
	}

	pb.Speed = -1
	pb.SetupNextFrameIndex(2)
	if pb.Frame != 2 || pb.NextFrame != 7 {
		t.Error("SetupNextFrameIndex() should set Frame when playing backward")
	}

}

func TestPlaybackHasEndReached(t *testing.T) {

	tests := []struct {
		first, last, frame int
		speed              float64
		expected           bool
	}{
		{0, 9, 8, 1, false},
		{0, 9, 9, 1, true},
		{9, 0, 1, 1, false},
		{9, 0, 0, 1, true},
		{0, 9, 1, -1, false},
		{0, 9, 0, -1, true},
		{9, 0, 8, -1, false},
		{9, 0, 9, -1, true},
	}

	pb := NewPlayback(nil)

	for _, test := range tests {
		pb.FirstFrame, pb.LastFrame, pb.Frame, pb.Speed = test.first, test.last, test.frame, test.speed
		if pb.HasEndReached() != test.expected {
			t.Errorf("range [%d, %d], frame %d, speed %v: expected HasEndReached() = %v", test.first, test.last, test.frame, test.speed, test.expected)
		}
	}

}

func TestPlaybackStateString(t *testing.T) {
	if PlaybackStopped.String() != "Stopped" || PlaybackPlaying.String() != "Playing" || PlaybackPaused.String() != "Paused" {
		t.Fatal("unexpected PlaybackState names")
	}
	if PlaybackState(42).String() != "Unknown" {
		t.Fatal("an invalid PlaybackState should be Unknown")
	}
}
