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
	"strings"

	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/byron"
)

// Response discriminants
const (
	ResponseTypeOk  = 0
	ResponseTypeErr = 1
)

// BlockHeaderResponse is the answer to a GetHeaders request. It's either
// *BlockHeaderResponseOk or *BlockHeaderResponseErr
type BlockHeaderResponse interface {
	isBlockHeaderResponse()
	String() string
}

type BlockHeaderResponseOk struct {
	Headers []byron.BlockHeader
}

func (*BlockHeaderResponseOk) isBlockHeaderResponse() {}

func (r *BlockHeaderResponseOk) String() string {
	var sb strings.Builder
	for i := range r.Headers {
		sb.WriteString(r.Headers[i].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

type BlockHeaderResponseErr struct {
	Message string
}

func (*BlockHeaderResponseErr) isBlockHeaderResponse() {}

func (r *BlockHeaderResponseErr) String() string {
	return fmt.Sprintf("Err %s\n", r.Message)
}

// DecodeBlockHeaderResponse decodes a [discriminant, payload] header response
func DecodeBlockHeaderResponse(data []byte) (BlockHeaderResponse, error) {
	items, err := cbor.DecodeTuple(data, 2, "BlockHeaderResponse")
	if err != nil {
		return nil, err
	}
	responseType, err := cbor.DecodeUint(items[0])
	if err != nil {
		return nil, err
	}
	switch responseType {
	case ResponseTypeOk:
		if err := cbor.CheckMajorType(items[1], cbor.MajorTypeArray); err != nil {
			return nil, err
		}
		headers := []byron.BlockHeader{}
		if _, err := cbor.Decode(items[1], &headers); err != nil {
			return nil, err
		}
		return &BlockHeaderResponseOk{Headers: headers}, nil
	case ResponseTypeErr:
		msg, err := cbor.DecodeText(items[1])
		if err != nil {
			return nil, err
		}
		return &BlockHeaderResponseErr{Message: msg}, nil
	}
	return nil, &UnknownVariantError{
		Type:    "BlockHeaderResponse",
		Variant: responseType,
	}
}

// BlockResponse is the answer to a GetBlocks request. *BlockResponseOk is the only variant
type BlockResponse interface {
	isBlockResponse()
	String() string
}

type BlockResponseOk struct {
	Block byron.Block
}

func (*BlockResponseOk) isBlockResponse() {}

func (r *BlockResponseOk) String() string {
	return r.Block.String()
}

// DecodeBlockResponse decodes a [discriminant, payload] block response. Discriminants
// other than 0 are rejected
func DecodeBlockResponse(data []byte) (BlockResponse, error) {
	items, err := cbor.DecodeTuple(data, 2, "BlockResponse")
	if err != nil {
		return nil, err
	}
	responseType, err := cbor.DecodeUint(items[0])
	if err != nil {
		return nil, err
	}
	if responseType != ResponseTypeOk {
		return nil, &UnknownVariantError{
			Type:    "BlockResponse",
			Variant: responseType,
		}
	}
	var block byron.Block
	if err := cbor.DecodeExact(items[1], &block); err != nil {
		return nil, err
	}
	return &BlockResponseOk{Block: block}, nil
}
