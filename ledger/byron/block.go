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

	"github.com/blinklabs-io/gobyron/cbor"
)

var errMissingHeader = &cbor.MalformedEncodingError{
	Err: errors.New("Byron block has no header"),
}

type ByronMainBlockBody struct {
	cbor.StructAsArray
	TxPayload  []ByronTxAux
	SscPayload cbor.RawMessage
	DlgPayload cbor.RawMessage
	UpdPayload cbor.RawMessage
}

type ByronMainBlock struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Header *ByronMainBlockHeader
	Body   ByronMainBlockBody
	Extra  cbor.RawMessage
}

func NewByronMainBlockFromCbor(data []byte) (*ByronMainBlock, error) {
	var byronMainBlock ByronMainBlock
	if _, err := cbor.Decode(data, &byronMainBlock); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return &byronMainBlock, nil
}

func (b *ByronMainBlock) UnmarshalCBOR(cborData []byte) error {
	if err := b.UnmarshalCbor(cborData, b); err != nil {
		return err
	}
	if b.Header == nil {
		return errMissingHeader
	}
	return nil
}

func (b ByronMainBlock) MarshalCBOR() ([]byte, error) {
	// Return stored CBOR if we have any
	if cborData := b.Cbor(); cborData != nil {
		return cborData, nil
	}
	type tByronMainBlock ByronMainBlock
	return cbor.Encode(tByronMainBlock(b))
}

func (b *ByronMainBlock) Hash() HeaderHash {
	return b.Header.Hash()
}

func (b *ByronMainBlock) SlotNumber() uint64 {
	return b.Header.SlotNumber()
}

// Transactions returns the transactions in the block body, in order
func (b *ByronMainBlock) Transactions() []*ByronTransaction {
	ret := make([]*ByronTransaction, 0, len(b.Body.TxPayload))
	for i := range b.Body.TxPayload {
		ret = append(ret, &b.Body.TxPayload[i].Transaction)
	}
	return ret
}

type ByronEpochBoundaryBlock struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Header *ByronEpochBoundaryBlockHeader
	// List of stakeholder IDs
	Body  cbor.RawMessage
	Extra cbor.RawMessage
}

func NewByronEpochBoundaryBlockFromCbor(
	data []byte,
) (*ByronEpochBoundaryBlock, error) {
	var byronEbbBlock ByronEpochBoundaryBlock
	if _, err := cbor.Decode(data, &byronEbbBlock); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return &byronEbbBlock, nil
}

func (b *ByronEpochBoundaryBlock) UnmarshalCBOR(cborData []byte) error {
	if err := b.UnmarshalCbor(cborData, b); err != nil {
		return err
	}
	if b.Header == nil {
		return errMissingHeader
	}
	return nil
}

func (b ByronEpochBoundaryBlock) MarshalCBOR() ([]byte, error) {
	if cborData := b.Cbor(); cborData != nil {
		return cborData, nil
	}
	type tByronEpochBoundaryBlock ByronEpochBoundaryBlock
	return cbor.Encode(tByronEpochBoundaryBlock(b))
}

func (b *ByronEpochBoundaryBlock) Hash() HeaderHash {
	return b.Header.Hash()
}

func (b *ByronEpochBoundaryBlock) SlotNumber() uint64 {
	return b.Header.SlotNumber()
}

// Block is a Byron block as found in block responses on the wire. It's encoded as
// [type, block], with the same type values as BlockHeader
type Block struct {
	blockType uint8
	mainBlock *ByronMainBlock
	ebbBlock  *ByronEpochBoundaryBlock
}

func NewBlockFromCbor(data []byte) (*Block, error) {
	var b Block
	if _, err := cbor.Decode(data, &b); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return &b, nil
}

func (b *Block) UnmarshalCBOR(cborData []byte) error {
	items, err := cbor.DecodeTuple(cborData, 2, "Block")
	if err != nil {
		return err
	}
	blockType, err := cbor.DecodeUint(items[0])
	if err != nil {
		return err
	}
	switch blockType {
	case BlockTypeByronEbb:
		var tmpBlock ByronEpochBoundaryBlock
		if _, err := cbor.Decode(items[1], &tmpBlock); err != nil {
			return err
		}
		b.ebbBlock = &tmpBlock
	case BlockTypeByronMain:
		var tmpBlock ByronMainBlock
		if _, err := cbor.Decode(items[1], &tmpBlock); err != nil {
			return err
		}
		b.mainBlock = &tmpBlock
	default:
		return &cbor.UnknownVariantError{
			Type:    "Block",
			Variant: blockType,
		}
	}
	b.blockType = uint8(blockType)
	return nil
}

func (b *Block) MarshalCBOR() ([]byte, error) {
	switch {
	case b.mainBlock != nil:
		return encodeTypedItem(BlockTypeByronMain, b.mainBlock.Cbor(), b.mainBlock)
	case b.ebbBlock != nil:
		return encodeTypedItem(BlockTypeByronEbb, b.ebbBlock.Cbor(), b.ebbBlock)
	}
	return nil, fmt.Errorf("empty Byron block")
}

func (b *Block) Type() uint8 {
	return b.blockType
}

func (b *Block) IsEpochBoundary() bool {
	return b.ebbBlock != nil
}

func (b *Block) Main() *ByronMainBlock {
	return b.mainBlock
}

func (b *Block) EpochBoundary() *ByronEpochBoundaryBlock {
	return b.ebbBlock
}

// Header returns the block header in its [type, header] wrapper form
func (b *Block) Header() *BlockHeader {
	switch {
	case b.mainBlock != nil:
		return &BlockHeader{
			headerType: BlockTypeByronMain,
			mainHeader: b.mainBlock.Header,
		}
	case b.ebbBlock != nil:
		return &BlockHeader{
			headerType: BlockTypeByronEbb,
			ebbHeader:  b.ebbBlock.Header,
		}
	}
	return &BlockHeader{}
}

func (b *Block) Hash() HeaderHash {
	return b.Header().Hash()
}

func (b *Block) SlotNumber() uint64 {
	return b.Header().SlotNumber()
}

// Transactions returns the block transactions. Epoch boundary blocks never have any
func (b *Block) Transactions() []*ByronTransaction {
	if b.mainBlock == nil {
		return nil
	}
	return b.mainBlock.Transactions()
}

func (b *Block) String() string {
	if b.mainBlock == nil && b.ebbBlock == nil {
		return "empty block"
	}
	return fmt.Sprintf(
		"block %s (slot %d, %d transactions)",
		b.Hash(),
		b.SlotNumber(),
		len(b.Transactions()),
	)
}
