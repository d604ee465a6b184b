package repository

import "errors"

var ErrEmptySlip = errors.New("slip has no selections")
