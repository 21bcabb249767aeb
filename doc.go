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

// Package gobyron provides the peer handshake and message codec used by Byron-era
// nodes on the legacy node-to-node protocol.
//
// The codec itself lives in protocol/legacy. The Byron block, header and
// transaction types it carries are in ledger/byron. This package holds the table of
// known networks and their protocol magic values.
package gobyron
