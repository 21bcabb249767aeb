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
	"bytes"
	"errors"
	"io"
	"reflect"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// CBOR major types
const (
	MajorTypeUint       uint8 = 0
	MajorTypeNegInt     uint8 = 1
	MajorTypeByteString uint8 = 2
	MajorTypeTextString uint8 = 3
	MajorTypeArray      uint8 = 4
	MajorTypeMap        uint8 = 5
	MajorTypeTag        uint8 = 6
	MajorTypeSimple     uint8 = 7
)

// Initial byte of an indefinite-length array
const indefLengthArrayHeader = 0x9f

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once

	cachedStrictDecMode     _cbor.DecMode
	cachedStrictDecModeErr  error
	cachedStrictDecModeOnce sync.Once
)

func decOptions() _cbor.DecOptions {
	return _cbor.DecOptions{
		ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
		// This defaults to 32, but there are blocks in the wild using >64 nested levels
		MaxNestedLevels: 256,
	}
}

// getDecMode returns a cached DecMode, initializing it on first use.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		cachedDecMode, cachedDecModeErr = decOptions().DecModeWithTags(customTagSet)
	})
	return cachedDecMode, cachedDecModeErr
}

// getStrictDecMode returns a cached DecMode which rejects duplicate map keys
func getStrictDecMode() (_cbor.DecMode, error) {
	cachedStrictDecModeOnce.Do(func() {
		opts := decOptions()
		opts.DupMapKey = _cbor.DupMapKeyEnforcedAPF
		cachedStrictDecMode, cachedStrictDecModeErr = opts.DecModeWithTags(customTagSet)
	})
	return cachedStrictDecMode, cachedStrictDecModeErr
}

func decodeWithMode(decMode _cbor.DecMode, dataBytes []byte, dest any) (int, error) {
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	dec := decMode.NewDecoder(bytes.NewReader(dataBytes))
	err := dec.Decode(dest)
	return dec.NumBytesRead(), wrapDecodeError(err)
}

// Decode decodes the first CBOR item in dataBytes into dest and returns the number
// of bytes read. Failures from the underlying codec are returned as *MalformedEncodingError
func Decode(dataBytes []byte, dest any) (int, error) {
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	return decodeWithMode(decMode, dataBytes, dest)
}

// DecodeStrict works like Decode, but rejects maps containing duplicate keys
func DecodeStrict(dataBytes []byte, dest any) (int, error) {
	decMode, err := getStrictDecMode()
	if err != nil {
		return 0, err
	}
	return decodeWithMode(decMode, dataBytes, dest)
}

// DecodeExact works like Decode, but requires dataBytes to contain exactly one CBOR
// data item. Extra bytes result in *TrailingDataError wrapped in *MalformedEncodingError
func DecodeExact(dataBytes []byte, dest any) error {
	bytesRead, err := Decode(dataBytes, dest)
	if err != nil {
		return err
	}
	if bytesRead != len(dataBytes) {
		return &MalformedEncodingError{
			Err: &TrailingDataError{Count: len(dataBytes) - bytesRead},
		}
	}
	return nil
}

// CheckMajorType returns *MalformedEncodingError unless the first data item in cborData
// has the expected major type. CBOR null and undefined are major type 7
func CheckMajorType(cborData []byte, expected uint8) error {
	if len(cborData) == 0 {
		return &MalformedEncodingError{Err: io.ErrUnexpectedEOF}
	}
	if actual := cborData[0] >> 5; actual != expected {
		return &MalformedEncodingError{
			Err: &MajorTypeError{
				Expected: expected,
				Actual:   actual,
			},
		}
	}
	return nil
}

// DecodeUint decodes a single unsigned integer. Any other data item, including null
// and undefined, is rejected
func DecodeUint(cborData []byte) (uint64, error) {
	if err := CheckMajorType(cborData, MajorTypeUint); err != nil {
		return 0, err
	}
	var ret uint64
	if err := DecodeExact(cborData, &ret); err != nil {
		return 0, err
	}
	return ret, nil
}

// DecodeText decodes a single text string. Any other data item, including null and
// undefined, is rejected
func DecodeText(cborData []byte) (string, error) {
	if err := CheckMajorType(cborData, MajorTypeTextString); err != nil {
		return "", err
	}
	var ret string
	if err := DecodeExact(cborData, &ret); err != nil {
		return "", err
	}
	return ret, nil
}

// DecodeTuple decodes a definite-length CBOR array which must contain exactly size items
// and returns the raw CBOR of each item. The name is used to describe the value in errors
func DecodeTuple(cborData []byte, size int, name string) ([]RawMessage, error) {
	if err := CheckMajorType(cborData, MajorTypeArray); err != nil {
		return nil, err
	}
	if cborData[0] == indefLengthArrayHeader {
		return nil, &MalformedEncodingError{Err: ErrIndefiniteLength}
	}
	var items []RawMessage
	if err := DecodeExact(cborData, &items); err != nil {
		return nil, err
	}
	if len(items) != size {
		return nil, &ArityMismatchError{
			Name:     name,
			Expected: size,
			Actual:   len(items),
		}
	}
	return items, nil
}

var (
	decodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	decodeGenericTypeCacheMutex sync.RWMutex
)

// DecodeGeneric decodes the specified CBOR into the destination object without using the
// destination object's UnmarshalCBOR() function
func DecodeGeneric(cborData []byte, dest any) error {
	// Get destination type
	valueDest := reflect.ValueOf(dest)
	if valueDest.Kind() != reflect.Pointer ||
		valueDest.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}
	typeDest := valueDest.Elem().Type()
	// Check type cache
	decodeGenericTypeCacheMutex.RLock()
	tmpTypeDest, ok := decodeGenericTypeCache[typeDest]
	decodeGenericTypeCacheMutex.RUnlock()
	if !ok {
		// Create a duplicate(-ish) struct from the destination
		// We do this so that we can bypass any custom UnmarshalCBOR() function on the
		// destination object
		destTypeFields := []reflect.StructField{}
		for i := range typeDest.NumField() {
			tmpField := typeDest.Field(i)
			if tmpField.IsExported() && tmpField.Name != "DecodeStoreCbor" {
				destTypeFields = append(destTypeFields, tmpField)
			}
		}
		tmpTypeDest = reflect.StructOf(destTypeFields)
		// Populate cache
		decodeGenericTypeCacheMutex.Lock()
		decodeGenericTypeCache[typeDest] = tmpTypeDest
		decodeGenericTypeCacheMutex.Unlock()
	}
	// Create temporary object with the type created above
	tmpDest := reflect.New(tmpTypeDest)
	// Decode CBOR into temporary object
	if _, err := Decode(cborData, tmpDest.Interface()); err != nil {
		return err
	}
	// Copy values from temporary object into destination object
	if err := copier.Copy(dest, tmpDest.Interface()); err != nil {
		return err
	}
	return nil
}
