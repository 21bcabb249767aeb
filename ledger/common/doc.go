// Copyright 2026 Blink Labs Software
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

// Package common provides the hash types shared by the ledger packages.
//
// Blake2b256 is used for block header hashes and transaction IDs, and
// Blake2b224 for address roots. Both always encode to CBOR as a byte string of
// their full size and refuse to decode from a byte string of any other size.
package common
