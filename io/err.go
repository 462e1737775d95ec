package io

import (
	"errors"

	"github.com/ezrec/gochip8/translate"
)

var f = translate.From

var (
	ErrRomTooLarge = errors.New(f("rom too large"))
)
