package demo

import "errors"

// ErrInvalidSeed indica un seed vuoto o troppo lungo.
var ErrInvalidSeed = errors.New("invalid seed")
