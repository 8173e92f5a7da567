package groovebox

import "errors"

var (
	ErrInvalidSampleRate = errors.New("groovebox: invalid sample rate")
	ErrBufferSize        = errors.New("groovebox: buffer is not whole stereo frames")
	ErrQueueFull         = errors.New("groovebox: command queue full")
	ErrNotFrozen         = errors.New("groovebox: track is not frozen")
)
