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

package byron

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/common"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	AddressTypePubkey = 0
	AddressTypeScript = 1
	AddressTypeRedeem = 2
)

type addressPayload struct {
	cbor.StructAsArray
	Root       common.Blake2b224
	Attributes cbor.RawMessage
	Type       uint64
}

// Address is a Byron address, encoded as [24(bytes(payload)), crc32]. The original CBOR
// is kept so the address re-encodes and renders exactly as received
type Address struct {
	raw      []byte
	payload  addressPayload
	checksum uint32
}

// NewAddressFromBase58 parses a base58-encoded Byron address
func NewAddressFromBase58(addr string) (Address, error) {
	data := base58.Decode(addr)
	if len(data) == 0 {
		return Address{}, errors.New("invalid base58 address")
	}
	var a Address
	if err := a.UnmarshalCBOR(data); err != nil {
		return Address{}, err
	}
	return a, nil
}

// ChecksumMismatchError indicates that the CRC32 stored in an address does not match
// its payload
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf(
		"address checksum mismatch, expected %08x, calculated %08x",
		e.Expected,
		e.Actual,
	)
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	items, err := cbor.DecodeTuple(data, 2, "Address")
	if err != nil {
		return err
	}
	payloadCbor, err := cbor.UnwrapCbor(items[0])
	if err != nil {
		return fmt.Errorf("decode address payload: %w", err)
	}
	payload, err := decodeAddressPayload(payloadCbor)
	if err != nil {
		return fmt.Errorf("decode address payload: %w", err)
	}
	if err := cbor.CheckMajorType(items[1], cbor.MajorTypeUint); err != nil {
		return fmt.Errorf("decode address checksum: %w", err)
	}
	var checksum uint32
	if _, err := cbor.Decode(items[1], &checksum); err != nil {
		return fmt.Errorf("decode address checksum: %w", err)
	}
	if actual := crc32.ChecksumIEEE(payloadCbor); actual != checksum {
		return &ChecksumMismatchError{
			Expected: checksum,
			Actual:   actual,
		}
	}
	a.raw = make([]byte, len(data))
	copy(a.raw, data)
	a.payload = payload
	a.checksum = checksum
	return nil
}

func decodeAddressPayload(data []byte) (addressPayload, error) {
	items, err := cbor.DecodeTuple(data, 3, "AddressPayload")
	if err != nil {
		return addressPayload{}, err
	}
	var ret addressPayload
	if err := cbor.DecodeExact(items[0], &ret.Root); err != nil {
		return addressPayload{}, err
	}
	if err := cbor.CheckMajorType(items[1], cbor.MajorTypeMap); err != nil {
		return addressPayload{}, err
	}
	ret.Attributes = items[1]
	if ret.Type, err = cbor.DecodeUint(items[2]); err != nil {
		return addressPayload{}, err
	}
	return ret, nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	if a.raw == nil {
		return nil, errors.New("empty Byron address")
	}
	ret := make([]byte, len(a.raw))
	copy(ret, a.raw)
	return ret, nil
}

// Root returns the hash of the address spending data and attributes
func (a Address) Root() common.Blake2b224 {
	return a.payload.Root
}

func (a Address) Type() uint64 {
	return a.payload.Type
}

func (a Address) Checksum() uint32 {
	return a.checksum
}

func (a Address) Bytes() []byte {
	return a.raw
}

// String returns the base58 form of the address
func (a Address) String() string {
	return base58.Encode(a.raw)
}
