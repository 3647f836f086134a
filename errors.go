package animcore

import "errors"

var (
	// ErrNilJoint is returned when a KeyframeJoint is created without a Joint.
	ErrNilJoint = errors.New("animcore: joint is nil")

	// ErrNilSkeleton is returned when a SkeletalAnimation is created without a Skeleton.
	ErrNilSkeleton = errors.New("animcore: skeleton is nil")

	// ErrUnknownTarget is returned when a morph channel names a morph target that doesn't exist.
	ErrUnknownTarget = errors.New("animcore: unknown morph target")

	// ErrInvalidClip is returned for clip configurations that can't be played.
	ErrInvalidClip = errors.New("animcore: invalid clip")

	// ErrUnknownMode is returned for clip configurations naming an unknown playback mode or easing function.
	ErrUnknownMode = errors.New("animcore: unknown mode")
)
