// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidBaudRate is the sentinel error wrapped by InvalidBaudRateError.
var ErrInvalidBaudRate = errors.New("invalid baud rate")

// standardBaudRates holds the serial line speeds consumer GPS receivers
// actually ship with. NMEA receivers default to 4800 or 9600; the faster
// rates appear on configurable u-blox modules.
var standardBaudRates = map[BaudRate]struct{}{
	4800:   {},
	9600:   {},
	19200:  {},
	38400:  {},
	57600:  {},
	115200: {},
}

type (
	// BaudRate represents a serial line speed for a GPS receiver.
	// The zero value (0) is valid and means "not configured": the entry
	// programs then fall back to their own probing. Non-zero values must be
	// one of the standard rates.
	BaudRate int

	// InvalidBaudRateError is returned when a BaudRate is non-zero and not
	// one of the standard serial line speeds.
	InvalidBaudRateError struct {
		Value BaudRate
	}
)

// String returns the decimal string representation of the BaudRate.
func (b BaudRate) String() string { return strconv.Itoa(int(b)) }

// Validate returns an error if the BaudRate is non-zero and not a standard
// serial line speed. The zero value (0) means unset and is valid.
func (b BaudRate) Validate() error {
	if b == 0 {
		return nil
	}
	if _, ok := standardBaudRates[b]; !ok {
		return &InvalidBaudRateError{Value: b}
	}
	return nil
}

// Error implements the error interface for InvalidBaudRateError.
func (e *InvalidBaudRateError) Error() string {
	return fmt.Sprintf("invalid baud rate %d: must be 0 (unset) or one of 4800, 9600, 19200, 38400, 57600, 115200", e.Value)
}

// Unwrap returns ErrInvalidBaudRate for errors.Is() compatibility.
func (e *InvalidBaudRateError) Unwrap() error { return ErrInvalidBaudRate }
