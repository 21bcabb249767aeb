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
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/blinklabs-io/gobyron/cbor"
)

// The only handler spec discriminant currently defined
const handlerSpecDiscriminant = 0

// MessageCode identifies a message kind in a handler table
type MessageCode uint32

// HandlerSpec is a single entry in a handler table. It's encoded as
// [0, 24(bytes(uint(code)))]
type HandlerSpec struct {
	code uint16
}

func NewHandlerSpec(code uint16) HandlerSpec {
	return HandlerSpec{code: code}
}

func (h HandlerSpec) Code() uint16 {
	return h.code
}

func (h HandlerSpec) String() string {
	return strconv.FormatUint(uint64(h.code), 10)
}

func (h HandlerSpec) MarshalCBOR() ([]byte, error) {
	wrapped, err := cbor.NewWrappedCbor(uint64(h.code))
	if err != nil {
		return nil, err
	}
	return cbor.Encode([]any{handlerSpecDiscriminant, wrapped})
}

func (h *HandlerSpec) UnmarshalCBOR(data []byte) error {
	items, err := cbor.DecodeTuple(data, 2, "HandlerSpec")
	if err != nil {
		return err
	}
	discriminant, err := cbor.DecodeUint(items[0])
	if err != nil {
		return err
	}
	if discriminant != handlerSpecDiscriminant {
		return &InvalidDiscriminantError{
			Expected: handlerSpecDiscriminant,
			Actual:   discriminant,
		}
	}
	inner, err := cbor.UnwrapCbor(items[1])
	if err != nil {
		return err
	}
	code, err := cbor.DecodeUint(inner)
	if err != nil {
		return err
	}
	if code > math.MaxUint16 {
		return &HandlerSpecRangeError{Value: code}
	}
	h.code = uint16(code)
	return nil
}

// HandlerSpecs is an immutable handler table. It's encoded as a map with keys in
// ascending order
type HandlerSpecs struct {
	specs map[MessageCode]HandlerSpec
}

// NewHandlerSpecs returns a handler table with a copy of the provided entries
func NewHandlerSpecs(specs map[MessageCode]HandlerSpec) HandlerSpecs {
	ret := HandlerSpecs{
		specs: make(map[MessageCode]HandlerSpec, len(specs)),
	}
	for code, spec := range specs {
		ret.specs[code] = spec
	}
	return ret
}

func (h HandlerSpecs) Get(code MessageCode) (HandlerSpec, bool) {
	spec, ok := h.specs[code]
	return spec, ok
}

func (h HandlerSpecs) Contains(code MessageCode) bool {
	_, ok := h.specs[code]
	return ok
}

// Codes returns the message codes in the table in ascending order
func (h HandlerSpecs) Codes() []MessageCode {
	ret := make([]MessageCode, 0, len(h.specs))
	for code := range h.specs {
		ret = append(ret, code)
	}
	slices.Sort(ret)
	return ret
}

func (h HandlerSpecs) Len() int {
	return len(h.specs)
}

func (h HandlerSpecs) Equal(other HandlerSpecs) bool {
	if len(h.specs) != len(other.specs) {
		return false
	}
	for code, spec := range h.specs {
		otherSpec, ok := other.specs[code]
		if !ok || otherSpec != spec {
			return false
		}
	}
	return true
}

func (h HandlerSpecs) String() string {
	var sb strings.Builder
	for _, code := range h.Codes() {
		sb.WriteString("  * ")
		sb.WriteString(strconv.FormatUint(uint64(code), 10))
		sb.WriteString(" -> ")
		sb.WriteString(h.specs[code].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (h HandlerSpecs) MarshalCBOR() ([]byte, error) {
	specs := h.specs
	if specs == nil {
		// Encode an empty table as an empty map rather than null
		specs = map[MessageCode]HandlerSpec{}
	}
	return cbor.Encode(specs)
}

func (h *HandlerSpecs) UnmarshalCBOR(data []byte) error {
	if err := cbor.CheckMajorType(data, cbor.MajorTypeMap); err != nil {
		return err
	}
	var entries map[any]cbor.RawMessage
	if _, err := cbor.DecodeStrict(data, &entries); err != nil {
		return err
	}
	specs := make(map[MessageCode]HandlerSpec, len(entries))
	for key, value := range entries {
		code, ok := key.(uint64)
		if !ok || code > math.MaxUint32 {
			return &MessageCodeError{Key: key}
		}
		var spec HandlerSpec
		if err := spec.UnmarshalCBOR(value); err != nil {
			return err
		}
		specs[MessageCode(code)] = spec
	}
	h.specs = specs
	return nil
}

// DefaultInHandlers returns the handler table advertised for inbound traffic
func DefaultInHandlers() HandlerSpecs {
	return NewHandlerSpecs(
		map[MessageCode]HandlerSpec{
			0x04: NewHandlerSpec(0x05),
			0x05: NewHandlerSpec(0x04),
			0x06: NewHandlerSpec(0x07),
			0x22: NewHandlerSpec(0x5e),
			0x25: NewHandlerSpec(0x5e),
			0x2b: NewHandlerSpec(0x5d),
			0x31: NewHandlerSpec(0x5c),
			0x37: NewHandlerSpec(0x62),
			0x3d: NewHandlerSpec(0x61),
			0x43: NewHandlerSpec(0x60),
			0x49: NewHandlerSpec(0x5f),
			0x53: NewHandlerSpec(0x00),
			0x5c: NewHandlerSpec(0x31),
			0x5d: NewHandlerSpec(0x2b),
			0x5e: NewHandlerSpec(0x25),
			0x5f: NewHandlerSpec(0x49),
			0x60: NewHandlerSpec(0x43),
			0x61: NewHandlerSpec(0x3d),
			0x62: NewHandlerSpec(0x37),
		},
	)
}

// DefaultOutHandlers returns the handler table advertised for outbound traffic
func DefaultOutHandlers() HandlerSpecs {
	return NewHandlerSpecs(
		map[MessageCode]HandlerSpec{
			0x04: NewHandlerSpec(0x05),
			0x05: NewHandlerSpec(0x04),
			0x06: NewHandlerSpec(0x07),
			0x0d: NewHandlerSpec(0x00),
			0x0e: NewHandlerSpec(0x00),
			0x25: NewHandlerSpec(0x5e),
			0x2b: NewHandlerSpec(0x5d),
			0x31: NewHandlerSpec(0x5c),
			0x37: NewHandlerSpec(0x62),
			0x3d: NewHandlerSpec(0x61),
			0x43: NewHandlerSpec(0x60),
			0x49: NewHandlerSpec(0x5f),
			0x53: NewHandlerSpec(0x00),
		},
	)
}
