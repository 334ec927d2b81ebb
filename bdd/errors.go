// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
	"log"
)

// errMemory is returned when the node table is full and cannot be resized.
var errMemory = errors.New("unable to free memory or resize BDD")

// Error returns the error status of the BDD, or the empty string if no
// operation failed so far.
func (b *BDD) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored returns true if there was an error during a computation. Errors are
// sticky: once set, every following operation returns nil.
func (b *BDD) Errored() bool {
	return b.error != nil
}

// Err returns the error status of the BDD as an error value.
func (b *BDD) Err() error {
	return b.error
}

// seterror records a new error, chaining it with the previous one if any, and
// returns the nil Node so that callers can simply return its result.
func (b *BDD) seterror(format string, a ...interface{}) Node {
	err := fmt.Errorf(format, a...)
	if b.error != nil {
		err = fmt.Errorf("%s; %w", err, b.error)
	}
	b.error = err
	if _DEBUG {
		log.Println(b.error)
	}
	return nil
}
