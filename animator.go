package animcore

import "log"

// Animator updates a set of Animations once per frame, in the order they were added. It's meant to be owned by the scene
// loop, which calls Update with the time elapsed since the previous frame.
type Animator struct {
	Logger *log.Logger // Logger receives warnings; if nil, log.Default() is used.

	animations []Animation
}

// NewAnimator returns a new, empty Animator.
func NewAnimator() *Animator {
	return &Animator{}
}

func (animator *Animator) logger() *log.Logger {
	if animator.Logger != nil {
		return animator.Logger
	}
	return log.Default()
}

// Add adds the given Animations. Nil Animations and Animations already in the Animator are skipped with a warning.
func (animator *Animator) Add(anims ...Animation) {
	for _, anim := range anims {
		if anim == nil {
			animator.logger().Println("warning: Animator.Add() was given a nil animation")
			continue
		}
		if animator.index(anim) >= 0 {
			animator.logger().Printf("warning: %s animation was already added to the Animator\n", anim.Type())
			continue
		}
		animator.animations = append(animator.animations, anim)
	}
}

// Remove removes the given Animation, keeping the order of the others. It returns false if the Animation wasn't in the
// Animator.
func (animator *Animator) Remove(anim Animation) bool {
	if i := animator.index(anim); i >= 0 {
		animator.animations[i] = nil
		animator.animations = append(animator.animations[:i], animator.animations[i+1:]...)
		return true
	}
	return false
}

func (animator *Animator) index(anim Animation) int {
	for i, a := range animator.animations {
		if a == anim {
			return i
		}
	}
	return -1
}

// Len returns the number of Animations in the Animator.
func (animator *Animator) Len() int {
	return len(animator.animations)
}

// Animations returns a copy of the Animator's Animations, in update order.
func (animator *Animator) Animations() []Animation {
	return append([]Animation(nil), animator.animations...)
}

// Clear removes every Animation.
func (animator *Animator) Clear() {
	animator.animations = nil
}

// Update updates every Animation by deltaTime seconds, in the order they were added.
func (animator *Animator) Update(deltaTime float64) {
	for _, anim := range animator.animations {
		anim.Update(deltaTime)
	}
}
