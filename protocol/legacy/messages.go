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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/byron"
)

// MessageType is the single byte command code used by the transport to dispatch a message
type MessageType uint8

const (
	MessageTypeGetHeaders MessageType = 0x04
	MessageTypeHeaders    MessageType = 0x05
	MessageTypeGetBlocks  MessageType = 0x06
	MessageTypeSubscribe  MessageType = 0x0d
	MessageTypeAnnounceTx MessageType = 0x25
)

// Subscription modes
const (
	SubscribeKeepAlive = 43
	SubscribeOneShot   = 42
)

// Marks a transaction announcement as an inventory message
const announceTxInventory = 0

func (t MessageType) String() string {
	switch t {
	case MessageTypeGetHeaders:
		return "GetHeaders"
	case MessageTypeHeaders:
		return "Headers"
	case MessageTypeGetBlocks:
		return "GetBlocks"
	case MessageTypeSubscribe:
		return "Subscribe"
	case MessageTypeAnnounceTx:
		return "AnnounceTx"
	}
	return fmt.Sprintf("MessageType(0x%02x)", uint8(t))
}

// Message is a command code paired with its encoded payload, ready to be framed by the transport
type Message struct {
	Type    MessageType
	Payload []byte
}

func newMessage(msgType MessageType, payload any) (*Message, error) {
	payloadCbor, err := cbor.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode error: %w", msgType, err)
	}
	return &Message{
		Type:    msgType,
		Payload: payloadCbor,
	}, nil
}

// NewMsgSubscribe builds a subscription request. The payload is 43 when keep-alive is
// requested and 42 otherwise
func NewMsgSubscribe(keepAlive bool) (*Message, error) {
	var mode uint64 = SubscribeOneShot
	if keepAlive {
		mode = SubscribeKeepAlive
	}
	return newMessage(MessageTypeSubscribe, mode)
}

// NewMsgGetHeaders builds a request for the headers following any of the from hashes,
// optionally up to the to hash
func NewMsgGetHeaders(
	froms []byron.HeaderHash,
	to *byron.HeaderHash,
) (*Message, error) {
	fromList := make(cbor.IndefLengthList, 0, len(froms))
	for _, from := range froms {
		fromList = append(fromList, from)
	}
	toList := []byron.HeaderHash{}
	if to != nil {
		toList = append(toList, *to)
	}
	return newMessage(MessageTypeGetHeaders, []any{fromList, toList})
}

// NewMsgGetBlocks builds a request for the blocks in the range from..to
func NewMsgGetBlocks(from byron.HeaderHash, to byron.HeaderHash) (*Message, error) {
	return newMessage(MessageTypeGetBlocks, []any{from, to})
}

// NewMsgAnnounceTx builds an inventory announcement for a transaction
func NewMsgAnnounceTx(txId byron.TxId) (*Message, error) {
	return newMessage(MessageTypeAnnounceTx, []any{announceTxInventory, txId})
}

func (m *Message) String() string {
	return fmt.Sprintf(
		"%s (0x%02x): %s",
		m.Type,
		uint8(m.Type),
		hex.EncodeToString(m.Payload),
	)
}
