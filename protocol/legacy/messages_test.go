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
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gobyron/ledger/byron"
	"github.com/blinklabs-io/gobyron/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHash(b byte) byron.HeaderHash {
	return common.NewBlake2b256(bytes.Repeat([]byte{b}, common.Blake2b256Size))
}

type messageTestDefinition struct {
	Name        string
	Build       func() (*Message, error)
	MessageType MessageType
	PayloadHex  string
}

func TestMessageBuilders(t *testing.T) {
	h1 := testHash(0x11)
	h2 := testHash(0x22)
	h3 := testHash(0x33)
	tests := []messageTestDefinition{
		{
			Name:        "subscribe keep-alive",
			Build:       func() (*Message, error) { return NewMsgSubscribe(true) },
			MessageType: MessageTypeSubscribe,
			PayloadHex:  "182b",
		},
		{
			Name:        "subscribe one-shot",
			Build:       func() (*Message, error) { return NewMsgSubscribe(false) },
			MessageType: MessageTypeSubscribe,
			PayloadHex:  "182a",
		},
		{
			Name: "get headers with to",
			Build: func() (*Message, error) {
				return NewMsgGetHeaders([]byron.HeaderHash{h1, h2}, &h3)
			},
			MessageType: MessageTypeGetHeaders,
			PayloadHex:  "829f5820" + h1.String() + "5820" + h2.String() + "ff815820" + h3.String(),
		},
		{
			Name: "get headers without to",
			Build: func() (*Message, error) {
				return NewMsgGetHeaders([]byron.HeaderHash{h1}, nil)
			},
			MessageType: MessageTypeGetHeaders,
			PayloadHex:  "829f5820" + h1.String() + "ff80",
		},
		{
			Name: "get headers empty",
			Build: func() (*Message, error) {
				return NewMsgGetHeaders(nil, nil)
			},
			MessageType: MessageTypeGetHeaders,
			PayloadHex:  "829fff80",
		},
		{
			Name: "get blocks",
			Build: func() (*Message, error) {
				return NewMsgGetBlocks(h1, h2)
			},
			MessageType: MessageTypeGetBlocks,
			PayloadHex:  "825820" + h1.String() + "5820" + h2.String(),
		},
		{
			Name: "announce tx",
			Build: func() (*Message, error) {
				return NewMsgAnnounceTx(h3)
			},
			MessageType: MessageTypeAnnounceTx,
			PayloadHex:  "82005820" + h3.String(),
		},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			msg, err := test.Build()
			require.NoError(t, err)
			assert.Equal(t, test.MessageType, msg.Type)
			payloadHex := hex.EncodeToString(msg.Payload)
			if payloadHex != test.PayloadHex {
				t.Fatalf(
					"message did not encode to expected payload\n  got: %s\n  wanted: %s",
					payloadHex,
					test.PayloadHex,
				)
			}
		})
	}
}

func TestSubscribeCommandCode(t *testing.T) {
	msg, err := NewMsgSubscribe(true)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0d), uint8(msg.Type))
	assert.Equal(t, []byte{0x18, SubscribeKeepAlive}, msg.Payload)
	msg, err = NewMsgSubscribe(false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x18, SubscribeOneShot}, msg.Payload)
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "GetHeaders", MessageTypeGetHeaders.String())
	assert.Equal(t, "Headers", MessageTypeHeaders.String())
	assert.Equal(t, "GetBlocks", MessageTypeGetBlocks.String())
	assert.Equal(t, "Subscribe", MessageTypeSubscribe.String())
	assert.Equal(t, "AnnounceTx", MessageTypeAnnounceTx.String())
	assert.Equal(t, "MessageType(0x99)", MessageType(0x99).String())
}

func TestMessageString(t *testing.T) {
	msg, err := NewMsgSubscribe(true)
	require.NoError(t, err)
	assert.Equal(t, "Subscribe (0x0d): 182b", msg.String())
}
