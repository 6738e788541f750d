package io

import (
	"errors"

	"github.com/ezrec/modvm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))
	ErrNoOutput    = errors.New(f("channel has no output"))
	ErrImageSize   = errors.New(f("image too large"))
)
