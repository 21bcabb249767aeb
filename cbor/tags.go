// Copyright 2024 Blink Labs Software
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
	"reflect"

	_cbor "github.com/fxamacker/cbor/v2"
)

const (
	// Useful tag numbers
	CborTagCbor = 24
)

var customTagSet _cbor.TagSet

func init() {
	// Build custom tagset
	customTagSet = _cbor.NewTagSet()
	tagOpts := _cbor.TagOptions{EncTag: _cbor.EncTagRequired, DecTag: _cbor.DecTagRequired}
	// Wrapped CBOR
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(WrappedCbor{}),
		CborTagCbor,
	); err != nil {
		panic(err)
	}
}

// WrappedCbor corresponds to CBOR tag 24 and is used to encode nested CBOR data
type WrappedCbor []byte

// NewWrappedCbor encodes the provided value and wraps the result for use with tag 24
func NewWrappedCbor(v any) (WrappedCbor, error) {
	cborData, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return WrappedCbor(cborData), nil
}

func (w WrappedCbor) Bytes() []byte {
	return w[:]
}

// Decode decodes the embedded CBOR data item into dest
func (w WrappedCbor) Decode(dest any) error {
	_, err := Decode(w, dest)
	return err
}

// UnwrapCbor returns the CBOR data embedded in a tag 24 item. Any tag number other
// than 24 results in *InvalidTagError
func UnwrapCbor(cborData []byte) ([]byte, error) {
	if err := CheckMajorType(cborData, MajorTypeTag); err != nil {
		return nil, err
	}
	var tmpTag RawTag
	if err := DecodeExact(cborData, &tmpTag); err != nil {
		return nil, err
	}
	if tmpTag.Number != CborTagCbor {
		return nil, &InvalidTagError{
			Expected: CborTagCbor,
			Actual:   tmpTag.Number,
		}
	}
	if err := CheckMajorType(tmpTag.Content, MajorTypeByteString); err != nil {
		return nil, err
	}
	var tmpBytes []byte
	if err := DecodeExact(tmpTag.Content, &tmpBytes); err != nil {
		return nil, err
	}
	return tmpBytes, nil
}

// DecodeWrappedCbor decodes a tag 24 item from cborData and then decodes the embedded
// CBOR data item into dest. The embedded data must hold exactly one data item
func DecodeWrappedCbor(cborData []byte, dest any) error {
	inner, err := UnwrapCbor(cborData)
	if err != nil {
		return err
	}
	return DecodeExact(inner, dest)
}
