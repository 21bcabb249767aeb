// Copyright 2025 Blink Labs Software
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

package legacy

import (
	"fmt"

	"github.com/blinklabs-io/gobyron/cbor"
)

// Codec error kinds, re-exported so callers can match every decode failure from this package
type (
	ArityMismatchError     = cbor.ArityMismatchError
	InvalidTagError        = cbor.InvalidTagError
	MalformedEncodingError = cbor.MalformedEncodingError
	MajorTypeError         = cbor.MajorTypeError
	TrailingDataError      = cbor.TrailingDataError
	UnknownVariantError    = cbor.UnknownVariantError
)

var (
	ErrMalformedEncoding = cbor.ErrMalformedEncoding
	ErrIndefiniteLength  = cbor.ErrIndefiniteLength
)

// InvalidDiscriminantError indicates that the reserved leading field of a HandlerSpec was not 0
type InvalidDiscriminantError struct {
	Expected uint64
	Actual   uint64
}

func (e *InvalidDiscriminantError) Error() string {
	return fmt.Sprintf(
		"invalid discriminant, expected %d, received %d",
		e.Expected,
		e.Actual,
	)
}

// HandlerSpecRangeError indicates a HandlerSpec value that does not fit in 16 bits
type HandlerSpecRangeError struct {
	Value uint64
}

func (e *HandlerSpecRangeError) Error() string {
	return fmt.Sprintf("handler spec value out of range: %d", e.Value)
}

// MessageCodeError indicates a handler table key that is not a 32-bit unsigned integer
type MessageCodeError struct {
	Key any
}

func (e *MessageCodeError) Error() string {
	return fmt.Sprintf("invalid handler table key: %v", e.Key)
}
