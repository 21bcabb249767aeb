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

// Handshake is exchanged by both peers when a connection is established. It's encoded
// as [magic, version, in handlers, out handlers]
type Handshake struct {
	ProtocolMagic byron.ProtocolMagic
	Version       byron.BlockVersion
	InHandlers    HandlerSpecs
	OutHandlers   HandlerSpecs
}

// HandshakeOptionFunc represents a function used to modify a Handshake
type HandshakeOptionFunc func(*Handshake)

// DefaultHandshake returns a handshake with the mainnet protocol magic, the default
// protocol version and the default handler tables
func DefaultHandshake() Handshake {
	return Handshake{
		ProtocolMagic: byron.DefaultProtocolMagic,
		Version:       byron.DefaultBlockVersion,
		InHandlers:    DefaultInHandlers(),
		OutHandlers:   DefaultOutHandlers(),
	}
}

// NewHandshake returns a new handshake with the provided options applied on top of the defaults
func NewHandshake(options ...HandshakeOptionFunc) Handshake {
	h := DefaultHandshake()
	// Apply provided options functions
	for _, option := range options {
		option(&h)
	}
	return h
}

// WithProtocolMagic specifies the protocol magic of the network
func WithProtocolMagic(protocolMagic byron.ProtocolMagic) HandshakeOptionFunc {
	return func(h *Handshake) {
		h.ProtocolMagic = protocolMagic
	}
}

// WithVersion specifies the advertised protocol version
func WithVersion(version byron.BlockVersion) HandshakeOptionFunc {
	return func(h *Handshake) {
		h.Version = version
	}
}

// WithInHandlers specifies the handler table for inbound traffic
func WithInHandlers(handlers HandlerSpecs) HandshakeOptionFunc {
	return func(h *Handshake) {
		h.InHandlers = handlers
	}
}

// WithOutHandlers specifies the handler table for outbound traffic
func WithOutHandlers(handlers HandlerSpecs) HandshakeOptionFunc {
	return func(h *Handshake) {
		h.OutHandlers = handlers
	}
}

// DecodeHandshake decodes a handshake received from a peer
func DecodeHandshake(data []byte) (Handshake, error) {
	var h Handshake
	if err := cbor.DecodeExact(data, &h); err != nil {
		return Handshake{}, err
	}
	return h, nil
}

// Encode returns the wire form of the handshake
func (h Handshake) Encode() ([]byte, error) {
	return cbor.Encode(h)
}

func (h Handshake) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(
		[]any{
			h.ProtocolMagic,
			h.Version,
			h.InHandlers,
			h.OutHandlers,
		},
	)
}

func (h *Handshake) UnmarshalCBOR(data []byte) error {
	items, err := cbor.DecodeTuple(data, 4, "Handshake")
	if err != nil {
		return err
	}
	var tmp Handshake
	if err := cbor.CheckMajorType(items[0], cbor.MajorTypeUint); err != nil {
		return fmt.Errorf("decode protocol magic: %w", err)
	}
	if _, err := cbor.Decode(items[0], &tmp.ProtocolMagic); err != nil {
		return fmt.Errorf("decode protocol magic: %w", err)
	}
	if _, err := cbor.Decode(items[1], &tmp.Version); err != nil {
		return fmt.Errorf("decode version: %w", err)
	}
	if _, err := cbor.Decode(items[2], &tmp.InHandlers); err != nil {
		return fmt.Errorf("decode in handlers: %w", err)
	}
	if _, err := cbor.Decode(items[3], &tmp.OutHandlers); err != nil {
		return fmt.Errorf("decode out handlers: %w", err)
	}
	*h = tmp
	return nil
}

func (h Handshake) Equal(other Handshake) bool {
	return h.ProtocolMagic == other.ProtocolMagic &&
		h.Version == other.Version &&
		h.InHandlers.Equal(other.InHandlers) &&
		h.OutHandlers.Equal(other.OutHandlers)
}

// CanSend reports whether the peer advertising this handshake accepts the message code
// as inbound traffic
func (h Handshake) CanSend(code MessageCode) bool {
	return h.InHandlers.Contains(code)
}

// CanReceive reports whether the peer advertising this handshake may send the message code
func (h Handshake) CanReceive(code MessageCode) bool {
	return h.OutHandlers.Contains(code)
}

func (h Handshake) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "protocol magic: %d\n", h.ProtocolMagic)
	fmt.Fprintf(&sb, "version: %s\n", h.Version)
	fmt.Fprintf(&sb, "in handlers:\n%s\n", h.InHandlers)
	fmt.Fprintf(&sb, "out handlers:\n%s\n", h.OutHandlers)
	return sb.String()
}
