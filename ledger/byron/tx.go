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
	ByronTransactionInputTypeUtxo = 0
)

// ByronTxAux pairs a transaction with its witnesses
type ByronTxAux struct {
	cbor.StructAsArray
	Transaction ByronTransaction
	Witnesses   []cbor.RawMessage
}

type ByronTransaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	TxInputs   []ByronTransactionInput
	TxOutputs  []ByronTransactionOutput
	Attributes cbor.RawMessage
}

func NewByronTransactionFromCbor(data []byte) (*ByronTransaction, error) {
	var byronTx ByronTransaction
	if _, err := cbor.Decode(data, &byronTx); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return &byronTx, nil
}

func (t *ByronTransaction) UnmarshalCBOR(cborData []byte) error {
	return t.UnmarshalCbor(cborData, t)
}

func (t ByronTransaction) MarshalCBOR() ([]byte, error) {
	if cborData := t.Cbor(); cborData != nil {
		return cborData, nil
	}
	type tByronTransaction ByronTransaction
	return cbor.Encode(tByronTransaction(t))
}

// Id returns the transaction ID, which is the hash of the transaction CBOR
func (t *ByronTransaction) Id() TxId {
	cborData := t.Cbor()
	if cborData == nil {
		tmpCbor, err := cbor.Encode(t)
		if err != nil {
			return TxId{}
		}
		cborData = tmpCbor
	}
	return common.Blake2b256Hash(cborData)
}

func (t *ByronTransaction) Inputs() []ByronTransactionInput {
	return t.TxInputs
}

func (t *ByronTransaction) Outputs() []ByronTransactionOutput {
	return t.TxOutputs
}

func (t *ByronTransaction) String() string {
	return fmt.Sprintf(
		"tx %s (%d inputs, %d outputs)",
		t.Id(),
		len(t.TxInputs),
		len(t.TxOutputs),
	)
}

// ByronTransactionInput references a previous transaction output. On the wire it's
// encoded as [0, 24(bytes([txid, index])))]
type ByronTransactionInput struct {
	cbor.StructAsArray
	TxId        TxId
	OutputIndex uint32
}

func NewByronTransactionInput(
	txId TxId,
	outputIndex uint32,
) ByronTransactionInput {
	return ByronTransactionInput{
		TxId:        txId,
		OutputIndex: outputIndex,
	}
}

func (i *ByronTransactionInput) UnmarshalCBOR(data []byte) error {
	items, err := cbor.DecodeTuple(data, 2, "ByronTransactionInput")
	if err != nil {
		return err
	}
	inputType, err := cbor.DecodeUint(items[0])
	if err != nil {
		return err
	}
	if inputType != ByronTransactionInputTypeUtxo {
		return &cbor.UnknownVariantError{
			Type:    "ByronTransactionInput",
			Variant: inputType,
		}
	}
	inner, err := cbor.UnwrapCbor(items[1])
	if err != nil {
		return err
	}
	fields, err := cbor.DecodeTuple(inner, 2, "ByronTransactionInput")
	if err != nil {
		return err
	}
	var tmpInput ByronTransactionInput
	if err := cbor.DecodeExact(fields[0], &tmpInput.TxId); err != nil {
		return err
	}
	if err := cbor.CheckMajorType(fields[1], cbor.MajorTypeUint); err != nil {
		return err
	}
	if _, err := cbor.Decode(fields[1], &tmpInput.OutputIndex); err != nil {
		return err
	}
	*i = tmpInput
	return nil
}

func (i ByronTransactionInput) MarshalCBOR() ([]byte, error) {
	type tByronTransactionInput ByronTransactionInput
	wrapped, err := cbor.NewWrappedCbor(tByronTransactionInput(i))
	if err != nil {
		return nil, err
	}
	return cbor.Encode([]any{ByronTransactionInputTypeUtxo, wrapped})
}

func (i ByronTransactionInput) Index() uint32 {
	return i.OutputIndex
}

func (i ByronTransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

type ByronTransactionOutput struct {
	cbor.StructAsArray
	OutputAddress Address
	OutputAmount  uint64
}

func (o ByronTransactionOutput) Address() Address {
	return o.OutputAddress
}

func (o ByronTransactionOutput) Amount() uint64 {
	return o.OutputAmount
}

func (o ByronTransactionOutput) String() string {
	return fmt.Sprintf(
		"(ByronTransactionOutput address=%s amount=%d)",
		o.OutputAddress.String(),
		o.OutputAmount,
	)
}
