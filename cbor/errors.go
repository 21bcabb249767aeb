// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"errors"
	"fmt"
	"io"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Sentinel error for codec failures so callers can use errors.Is
var ErrMalformedEncoding = errors.New("malformed CBOR encoding")

// MalformedEncodingError wraps a failure reported by the underlying CBOR codec, such as
// truncated input, an invalid primitive encoding, a type mismatch or a duplicate map key
type MalformedEncodingError struct {
	Err error
}

func (e *MalformedEncodingError) Error() string {
	return fmt.Sprintf("malformed CBOR encoding: %v", e.Err)
}

func (e *MalformedEncodingError) Unwrap() error { return e.Err }

func (*MalformedEncodingError) Is(target error) bool {
	return target == ErrMalformedEncoding
}

// ArityMismatchError indicates that a fixed-length array had the wrong number of items
type ArityMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: expected array of %d items, found %d",
		e.Name,
		e.Expected,
		e.Actual,
	)
}

// InvalidTagError indicates that a tagged item carried an unexpected tag number
type InvalidTagError struct {
	Expected uint64
	Actual   uint64
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf(
		"invalid tag, expected %d, received %d",
		e.Expected,
		e.Actual,
	)
}

// MajorTypeError indicates a data item of an unexpected CBOR major type, such as a
// null where an integer is required
type MajorTypeError struct {
	Expected uint8
	Actual   uint8
}

func (e *MajorTypeError) Error() string {
	return fmt.Sprintf(
		"unexpected CBOR major type, expected %d, found %d",
		e.Expected,
		e.Actual,
	)
}

// ErrIndefiniteLength is returned when an indefinite-length array is found where a
// fixed-length array is required
var ErrIndefiniteLength = errors.New(
	"indefinite-length array where a fixed-length array is required",
)

// TrailingDataError indicates that input contained extra bytes after the decoded item
type TrailingDataError struct {
	Count int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%d bytes of trailing data after CBOR item", e.Count)
}

// UnknownVariantError indicates a tagged union discriminant outside of the recognized set
type UnknownVariantError struct {
	Type    string
	Variant uint64
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s: unknown variant %d", e.Type, e.Variant)
}

// wrapDecodeError converts failures from the upstream CBOR library into
// *MalformedEncodingError. Errors returned from custom UnmarshalCBOR() functions
// are passed through unchanged
func wrapDecodeError(err error) error {
	if err == nil {
		return nil
	}
	// Already wrapped by a nested Decode() call
	var malformedErr *MalformedEncodingError
	if errors.As(err, &malformedErr) {
		return err
	}
	var syntaxErr *_cbor.SyntaxError
	var semanticErr *_cbor.SemanticError
	var typeErr *_cbor.UnmarshalTypeError
	var dupKeyErr *_cbor.DupMapKeyError
	var mapKeyErr *_cbor.InvalidMapKeyTypeError
	var nestedErr *_cbor.MaxNestedLevelError
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &syntaxErr),
		errors.As(err, &semanticErr),
		errors.As(err, &typeErr),
		errors.As(err, &dupKeyErr),
		errors.As(err, &mapKeyErr),
		errors.As(err, &nestedErr):
		return &MalformedEncodingError{Err: err}
	}
	return err
}
