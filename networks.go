// Copyright 2023 Blink Labs Software
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

package gobyron

import "github.com/blinklabs-io/gobyron/ledger/byron"

// Network definitions
var (
	NetworkMainnet = Network{
		Name:          "mainnet",
		ProtocolMagic: byron.ProtocolMagicMainnet,
	}
	NetworkTestnet = Network{
		Name:          "testnet",
		ProtocolMagic: byron.ProtocolMagicTestnet,
	}
	NetworkPreprod = Network{
		Name:          "preprod",
		ProtocolMagic: 1,
	}
	NetworkPreview = Network{
		Name:          "preview",
		ProtocolMagic: 2,
	}

	NetworkInvalid = Network{
		Name:          "invalid",
		ProtocolMagic: 0,
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkTestnet,
	NetworkPreprod,
	NetworkPreview,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByProtocolMagic returns a predefined network by protocol magic
func NetworkByProtocolMagic(protocolMagic byron.ProtocolMagic) Network {
	for _, network := range networks {
		if network.ProtocolMagic == protocolMagic {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a Byron-era network
type Network struct {
	Name          string
	ProtocolMagic byron.ProtocolMagic
}

func (n Network) String() string {
	return n.Name
}
