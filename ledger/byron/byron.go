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
	"fmt"

	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/common"
)

const (
	BlockTypeByronEbb  = 0
	BlockTypeByronMain = 1

	ByronSlotsPerEpoch = 21600
)

// ProtocolMagic identifies a Byron network. Peers with different values must not interoperate
type ProtocolMagic uint32

const (
	ProtocolMagicMainnet ProtocolMagic = 764824073
	ProtocolMagicTestnet ProtocolMagic = 1097911063

	DefaultProtocolMagic = ProtocolMagicMainnet
)

// BlockVersion is the Byron protocol version, encoded as [major, minor, alt]
type BlockVersion struct {
	cbor.StructAsArray
	Major uint16
	Minor uint16
	Alt   uint8
}

// DefaultBlockVersion is the protocol version advertised by default (0.1.0)
var DefaultBlockVersion = BlockVersion{Major: 0, Minor: 1, Alt: 0}

func NewBlockVersion(major uint16, minor uint16, alt uint8) BlockVersion {
	return BlockVersion{
		Major: major,
		Minor: minor,
		Alt:   alt,
	}
}

func (v *BlockVersion) UnmarshalCBOR(data []byte) error {
	items, err := cbor.DecodeTuple(data, 3, "BlockVersion")
	if err != nil {
		return err
	}
	var tmp BlockVersion
	fields := []any{&tmp.Major, &tmp.Minor, &tmp.Alt}
	for idx, field := range fields {
		if err := cbor.CheckMajorType(items[idx], cbor.MajorTypeUint); err != nil {
			return err
		}
		if _, err := cbor.Decode(items[idx], field); err != nil {
			return err
		}
	}
	*v = tmp
	return nil
}

func (v BlockVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Alt)
}

// HeaderHash identifies a block by the hash of its header
type HeaderHash = common.Blake2b256

// TxId identifies a transaction by the hash of its CBOR
type TxId = common.Blake2b256

type ByronMainBlockHeader struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	ProtocolMagic uint32
	PrevBlock     common.Blake2b256
	BodyProof     cbor.RawMessage
	ConsensusData struct {
		cbor.StructAsArray
		// [slotid, pubkey, difficulty, blocksig]
		SlotId struct {
			cbor.StructAsArray
			Epoch uint64
			Slot  uint16
		}
		PubKey     []byte
		Difficulty struct {
			cbor.StructAsArray
			Value uint64
		}
		BlockSig cbor.RawMessage
	}
	ExtraData struct {
		cbor.StructAsArray
		BlockVersion    BlockVersion
		SoftwareVersion struct {
			cbor.StructAsArray
			Name    string
			Version uint32
		}
		Attributes cbor.RawMessage
		ExtraProof common.Blake2b256
	}
}

func (h *ByronMainBlockHeader) UnmarshalCBOR(cborData []byte) error {
	// Decode generically and store original CBOR
	return h.UnmarshalCbor(cborData, h)
}

// Hash returns the header hash. The hash is calculated over the header CBOR with the
// [type, header] list wrapper prepended
func (h *ByronMainBlockHeader) Hash() HeaderHash {
	return headerHash(BlockTypeByronMain, h.Cbor(), h)
}

func (h *ByronMainBlockHeader) PrevHash() HeaderHash {
	return h.PrevBlock
}

func (h *ByronMainBlockHeader) SlotNumber() uint64 {
	return (h.ConsensusData.SlotId.Epoch * ByronSlotsPerEpoch) +
		uint64(h.ConsensusData.SlotId.Slot)
}

func (h *ByronMainBlockHeader) Epoch() uint64 {
	return h.ConsensusData.SlotId.Epoch
}

func (h *ByronMainBlockHeader) String() string {
	return fmt.Sprintf(
		"main header %s (epoch %d, slot %d, prev %s, version %s)",
		h.Hash(),
		h.ConsensusData.SlotId.Epoch,
		h.ConsensusData.SlotId.Slot,
		h.PrevBlock,
		h.ExtraData.BlockVersion,
	)
}

type ByronEpochBoundaryBlockHeader struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	ProtocolMagic uint32
	PrevBlock     common.Blake2b256
	BodyProof     common.Blake2b256
	ConsensusData struct {
		cbor.StructAsArray
		Epoch      uint64
		Difficulty struct {
			cbor.StructAsArray
			Value uint64
		}
	}
	ExtraData cbor.RawMessage
}

func (h *ByronEpochBoundaryBlockHeader) UnmarshalCBOR(cborData []byte) error {
	// Decode generically and store original CBOR
	return h.UnmarshalCbor(cborData, h)
}

func (h *ByronEpochBoundaryBlockHeader) Hash() HeaderHash {
	return headerHash(BlockTypeByronEbb, h.Cbor(), h)
}

func (h *ByronEpochBoundaryBlockHeader) PrevHash() HeaderHash {
	return h.PrevBlock
}

func (h *ByronEpochBoundaryBlockHeader) SlotNumber() uint64 {
	return h.ConsensusData.Epoch * ByronSlotsPerEpoch
}

func (h *ByronEpochBoundaryBlockHeader) Epoch() uint64 {
	return h.ConsensusData.Epoch
}

func (h *ByronEpochBoundaryBlockHeader) String() string {
	return fmt.Sprintf(
		"epoch boundary header %s (epoch %d, prev %s)",
		h.Hash(),
		h.ConsensusData.Epoch,
		h.PrevBlock,
	)
}

func headerHash(headerType uint8, cborData []byte, header any) HeaderHash {
	if cborData == nil {
		// Header was built locally rather than decoded
		tmpCbor, err := cbor.Encode(header)
		if err != nil {
			return HeaderHash{}
		}
		cborData = tmpCbor
	}
	// Prepend bytes for CBOR list wrapper
	// The block hash is calculated with these extra bytes, so we have to add them to
	// get the correct value
	return common.Blake2b256Hash(
		append([]byte{0x82, headerType}, cborData...),
	)
}

// BlockHeader is a Byron block header as found in header lists on the wire. It's encoded
// as [type, header], where type 0 is an epoch boundary header and 1 a main header
type BlockHeader struct {
	headerType uint8
	mainHeader *ByronMainBlockHeader
	ebbHeader  *ByronEpochBoundaryBlockHeader
}

func NewBlockHeaderFromCbor(data []byte) (*BlockHeader, error) {
	var h BlockHeader
	if _, err := cbor.Decode(data, &h); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return &h, nil
}

func (h *BlockHeader) UnmarshalCBOR(cborData []byte) error {
	items, err := cbor.DecodeTuple(cborData, 2, "BlockHeader")
	if err != nil {
		return err
	}
	headerType, err := cbor.DecodeUint(items[0])
	if err != nil {
		return err
	}
	switch headerType {
	case BlockTypeByronEbb:
		var tmpHeader ByronEpochBoundaryBlockHeader
		if _, err := cbor.Decode(items[1], &tmpHeader); err != nil {
			return err
		}
		h.ebbHeader = &tmpHeader
	case BlockTypeByronMain:
		var tmpHeader ByronMainBlockHeader
		if _, err := cbor.Decode(items[1], &tmpHeader); err != nil {
			return err
		}
		h.mainHeader = &tmpHeader
	default:
		return &cbor.UnknownVariantError{
			Type:    "BlockHeader",
			Variant: headerType,
		}
	}
	h.headerType = uint8(headerType)
	return nil
}

func (h *BlockHeader) MarshalCBOR() ([]byte, error) {
	switch {
	case h.mainHeader != nil:
		return encodeTypedItem(BlockTypeByronMain, h.mainHeader.Cbor(), h.mainHeader)
	case h.ebbHeader != nil:
		return encodeTypedItem(BlockTypeByronEbb, h.ebbHeader.Cbor(), h.ebbHeader)
	}
	return nil, fmt.Errorf("empty Byron block header")
}

// Type returns BlockTypeByronEbb or BlockTypeByronMain
func (h *BlockHeader) Type() uint8 {
	return h.headerType
}

func (h *BlockHeader) IsEpochBoundary() bool {
	return h.ebbHeader != nil
}

// Main returns the main block header, or nil for an epoch boundary header
func (h *BlockHeader) Main() *ByronMainBlockHeader {
	return h.mainHeader
}

// EpochBoundary returns the epoch boundary header, or nil for a main header
func (h *BlockHeader) EpochBoundary() *ByronEpochBoundaryBlockHeader {
	return h.ebbHeader
}

func (h *BlockHeader) Hash() HeaderHash {
	switch {
	case h.mainHeader != nil:
		return h.mainHeader.Hash()
	case h.ebbHeader != nil:
		return h.ebbHeader.Hash()
	}
	return HeaderHash{}
}

func (h *BlockHeader) PrevHash() HeaderHash {
	switch {
	case h.mainHeader != nil:
		return h.mainHeader.PrevBlock
	case h.ebbHeader != nil:
		return h.ebbHeader.PrevBlock
	}
	return HeaderHash{}
}

func (h *BlockHeader) SlotNumber() uint64 {
	switch {
	case h.mainHeader != nil:
		return h.mainHeader.SlotNumber()
	case h.ebbHeader != nil:
		return h.ebbHeader.SlotNumber()
	}
	return 0
}

func (h *BlockHeader) ProtocolMagic() ProtocolMagic {
	switch {
	case h.mainHeader != nil:
		return ProtocolMagic(h.mainHeader.ProtocolMagic)
	case h.ebbHeader != nil:
		return ProtocolMagic(h.ebbHeader.ProtocolMagic)
	}
	return 0
}

func (h *BlockHeader) String() string {
	switch {
	case h.mainHeader != nil:
		return h.mainHeader.String()
	case h.ebbHeader != nil:
		return h.ebbHeader.String()
	}
	return "empty header"
}

// encodeTypedItem encodes [type, item], reusing the original item CBOR when available
func encodeTypedItem(itemType uint8, itemCbor []byte, item any) ([]byte, error) {
	if itemCbor != nil {
		return cbor.Encode([]any{itemType, cbor.RawMessage(itemCbor)})
	}
	return cbor.Encode([]any{itemType, item})
}
