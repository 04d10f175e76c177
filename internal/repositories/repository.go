package repositories

import "errors"

// ErrNotFound is returned by lookups when no row matches. Services map it
// to their own not-found errors so handlers never see gorm internals.
var ErrNotFound = errors.New("record not found")
