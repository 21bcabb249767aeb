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

// Package cbor provides CBOR encoding/decoding utilities for the Byron legacy
// network protocol.
//
// This package wraps github.com/fxamacker/cbor/v2. Encoding always uses core
// deterministic map key ordering, so maps with integer keys are written in
// ascending key order.
//
// # Key Types
//
// Embeddable types for struct encoding:
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - DecodeStoreCbor: Embed to preserve original CBOR bytes for hashing
//
// Utility types:
//   - RawMessage: Deferred decoding (like json.RawMessage)
//   - RawTag, Tag: CBOR semantic tags
//   - WrappedCbor: tag 24, a byte string holding its own encoded data item
//   - IndefLengthList: indefinite-length array
//
// # Tag 24
//
// The legacy protocol wraps some values as tag 24 over a byte string which
// contains the value's own CBOR encoding. NewWrappedCbor performs the encode
// step and DecodeWrappedCbor the matching decode step:
//
//	inner, err := cbor.NewWrappedCbor(uint64(5)) // d8 18 41 05 once encoded
//	...
//	var v uint64
//	err = cbor.DecodeWrappedCbor(data, &v)
//
// # Errors
//
// Failures from the upstream library are returned as *MalformedEncodingError.
// DecodeTuple returns *ArityMismatchError for arrays of the wrong length and
// DecodeWrappedCbor returns *InvalidTagError for any tag other than 24.
package cbor
