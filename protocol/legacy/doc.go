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

// Package legacy implements the handshake and message codec of the Byron legacy
// node-to-node protocol.
//
// Peers exchange a Handshake carrying the protocol magic, the protocol version and
// two handler tables that advertise the message codes each side accepts. Outbound
// commands are built as a Message (command code plus CBOR payload) and handed to
// the transport for framing. Replies to header and block requests are decoded with
// DecodeBlockHeaderResponse and DecodeBlockResponse.
//
// All encoding and decoding is pure and synchronous. Values are safe to share
// between goroutines once constructed, and every decoder reports malformed input
// as a typed error instead of panicking.
package legacy
