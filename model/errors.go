package model

import "errors"

// ErrMissingField is returned by Manager.Save when a required field has
// no value. Match with errors.Is; the wrapped message names the field.
var ErrMissingField = errors.New("model: missing required field")
