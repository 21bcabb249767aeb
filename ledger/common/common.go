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

package common

import (
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gobyron/cbor"
	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32
	Blake2b224Size = 28
)

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

// NewBlake2b256FromHex parses a hex-encoded Blake2b-256 hash
func NewBlake2b256FromHex(hashHex string) (Blake2b256, error) {
	hashBytes, err := hex.DecodeString(hashHex)
	if err != nil {
		return Blake2b256{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(hashBytes) != Blake2b256Size {
		return Blake2b256{}, fmt.Errorf(
			"invalid hash length: expected %d bytes, found %d",
			Blake2b256Size,
			len(hashBytes),
		)
	}
	return NewBlake2b256(hashBytes), nil
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

func (b Blake2b256) MarshalCBOR() ([]byte, error) {
	// Ensure we always encode a full-sized bytestring, even if the hash is zero-valued
	hashBytes := make([]byte, Blake2b256Size)
	copy(hashBytes, b[:])
	return cbor.Encode(hashBytes)
}

func (b *Blake2b256) UnmarshalCBOR(cborData []byte) error {
	if err := cbor.CheckMajorType(cborData, cbor.MajorTypeByteString); err != nil {
		return err
	}
	var hashBytes []byte
	if _, err := cbor.Decode(cborData, &hashBytes); err != nil {
		return err
	}
	if len(hashBytes) != Blake2b256Size {
		return fmt.Errorf(
			"invalid Blake2b-256 hash length: expected %d bytes, found %d",
			Blake2b256Size,
			len(hashBytes),
		)
	}
	copy(b[:], hashBytes)
	return nil
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Blake2b256 {
	tmpHash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Blake2b256(tmpHash.Sum(nil))
}

type Blake2b224 [Blake2b224Size]byte

func NewBlake2b224(data []byte) Blake2b224 {
	b := Blake2b224{}
	copy(b[:], data)
	return b
}

func (b Blake2b224) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b224) Bytes() []byte {
	return b[:]
}

func (b Blake2b224) MarshalCBOR() ([]byte, error) {
	// Ensure we always encode a full-sized bytestring, even if the hash is zero-valued
	hashBytes := make([]byte, Blake2b224Size)
	copy(hashBytes, b[:])
	return cbor.Encode(hashBytes)
}

func (b *Blake2b224) UnmarshalCBOR(cborData []byte) error {
	if err := cbor.CheckMajorType(cborData, cbor.MajorTypeByteString); err != nil {
		return err
	}
	var hashBytes []byte
	if _, err := cbor.Decode(cborData, &hashBytes); err != nil {
		return err
	}
	if len(hashBytes) != Blake2b224Size {
		return fmt.Errorf(
			"invalid Blake2b-224 hash length: expected %d bytes, found %d",
			Blake2b224Size,
			len(hashBytes),
		)
	}
	copy(b[:], hashBytes)
	return nil
}
