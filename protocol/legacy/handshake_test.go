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
	"sync"
	"testing"

	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/byron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Default mainnet handshake as sent by cardano-sl nodes
const defaultHandshakeHex = "841a2d964a0983000100b3048200d8184105058200d8184104068200d818410718228200d81842185e18258200d81842185e182b8200d81842185d18318200d81842185c18378200d818421862183d8200d81842186118438200d81842186018498200d81842185f18538200d8184100185c8200d818421831185d8200d81842182b185e8200d818421825185f8200d81842184918608200d81842184318618200d81842183d18628200d818421837ad048200d8184105058200d8184104068200d81841070d8200d81841000e8200d818410018258200d81842185e182b8200d81842185d18318200d81842185c18378200d818421862183d8200d81842186118438200d81842186018498200d81842185f18538200d8184100"

func TestDefaultHandshakeEncode(t *testing.T) {
	cborData, err := DefaultHandshake().Encode()
	require.NoError(t, err)
	cborHex := hex.EncodeToString(cborData)
	if cborHex != defaultHandshakeHex {
		t.Fatalf(
			"handshake did not encode to expected CBOR\n  got: %s\n  wanted: %s",
			cborHex,
			defaultHandshakeHex,
		)
	}
}

func TestDefaultHandshakeDecode(t *testing.T) {
	cborData, err := hex.DecodeString(defaultHandshakeHex)
	require.NoError(t, err)
	hs, err := DecodeHandshake(cborData)
	require.NoError(t, err)
	expected := DefaultHandshake()
	assert.Equal(t, expected.ProtocolMagic, hs.ProtocolMagic)
	assert.Equal(t, expected.Version, hs.Version)
	assert.True(t, expected.InHandlers.Equal(hs.InHandlers))
	assert.True(t, expected.OutHandlers.Equal(hs.OutHandlers))
	assert.True(t, expected.Equal(hs))
}

func TestHandshakeRoundTrip(t *testing.T) {
	hs := NewHandshake(
		WithProtocolMagic(byron.ProtocolMagicTestnet),
		WithVersion(byron.NewBlockVersion(1, 0, 0)),
		WithInHandlers(
			NewHandlerSpecs(
				map[MessageCode]HandlerSpec{
					0x04: NewHandlerSpec(0x05),
				},
			),
		),
		WithOutHandlers(NewHandlerSpecs(nil)),
	)
	cborData, err := cbor.Encode(hs)
	require.NoError(t, err)
	assert.Equal(
		t,
		"841a4170cb1783010000a1048200d8184105a0",
		hex.EncodeToString(cborData),
	)
	decoded, err := DecodeHandshake(cborData)
	require.NoError(t, err)
	assert.True(t, hs.Equal(decoded))
	assert.False(t, hs.Equal(DefaultHandshake()))
}

func TestNewHandshakeDefaults(t *testing.T) {
	assert.True(t, NewHandshake().Equal(DefaultHandshake()))
	hs := NewHandshake(WithProtocolMagic(1))
	assert.Equal(t, byron.ProtocolMagic(1), hs.ProtocolMagic)
	assert.Equal(t, byron.DefaultBlockVersion, hs.Version)
	assert.False(t, hs.Equal(DefaultHandshake()))
}

func TestHandshakeArityMismatch(t *testing.T) {
	cborData, err := cbor.Encode([]any{1, 2, 3})
	require.NoError(t, err)
	_, err = DecodeHandshake(cborData)
	var arityErr *ArityMismatchError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, 4, arityErr.Expected)
	assert.Equal(t, 3, arityErr.Actual)
}

func TestHandshakeFieldErrors(t *testing.T) {
	version := byron.DefaultBlockVersion
	validTable := cbor.RawMessage{0xa0}
	// {4: [1, 24(h'05')]}
	badTable := cbor.RawMessage{0xa1, 0x04, 0x82, 0x01, 0xd8, 0x18, 0x41, 0x05}
	t.Run("magic", func(t *testing.T) {
		cborData, err := cbor.Encode([]any{"magic", version, validTable, validTable})
		require.NoError(t, err)
		_, err = DecodeHandshake(cborData)
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		assert.ErrorContains(t, err, "protocol magic")
	})
	t.Run("version", func(t *testing.T) {
		cborData, err := cbor.Encode([]any{1, []any{1, 2}, validTable, validTable})
		require.NoError(t, err)
		_, err = DecodeHandshake(cborData)
		var arityErr *ArityMismatchError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, "BlockVersion", arityErr.Name)
		assert.ErrorContains(t, err, "version")
	})
	t.Run("in handlers", func(t *testing.T) {
		cborData, err := cbor.Encode([]any{1, version, badTable, validTable})
		require.NoError(t, err)
		_, err = DecodeHandshake(cborData)
		var discErr *InvalidDiscriminantError
		require.ErrorAs(t, err, &discErr)
		assert.ErrorContains(t, err, "in handlers")
	})
	t.Run("out handlers", func(t *testing.T) {
		cborData, err := cbor.Encode([]any{1, version, validTable, badTable})
		require.NoError(t, err)
		_, err = DecodeHandshake(cborData)
		var discErr *InvalidDiscriminantError
		require.ErrorAs(t, err, &discErr)
		assert.ErrorContains(t, err, "out handlers")
	})
	t.Run("truncated", func(t *testing.T) {
		cborData, _ := hex.DecodeString(defaultHandshakeHex)
		_, err := DecodeHandshake(cborData[:len(cborData)-1])
		assert.ErrorIs(t, err, ErrMalformedEncoding)
	})
}

func TestHandshakeNullFields(t *testing.T) {
	testDefs := []struct {
		name    string
		cborHex string
		context string
	}{
		{
			name:    "null magic",
			cborHex: "84f683000100a0a0",
			context: "protocol magic",
		},
		{
			name:    "null version",
			cborHex: "8401f6a0a0",
			context: "version",
		},
		{
			name:    "null version field",
			cborHex: "840183f60100a0a0",
			context: "version",
		},
		{
			name:    "null in handlers",
			cborHex: "840183000100f6a0",
			context: "in handlers",
		},
		{
			name:    "null handler tables",
			cborHex: "840183000100f6f6",
			context: "in handlers",
		},
		{
			name:    "undefined out handlers",
			cborHex: "840183000100a0f7",
			context: "out handlers",
		},
	}
	for _, test := range testDefs {
		t.Run(test.name, func(t *testing.T) {
			cborData, err := hex.DecodeString(test.cborHex)
			require.NoError(t, err)
			_, err = DecodeHandshake(cborData)
			var majorTypeErr *MajorTypeError
			require.ErrorAs(t, err, &majorTypeErr)
			assert.Equal(t, uint8(7), majorTypeErr.Actual)
			assert.ErrorIs(t, err, ErrMalformedEncoding)
			assert.ErrorContains(t, err, test.context)
		})
	}
}

func TestHandshakeIndefiniteLength(t *testing.T) {
	// [_ 1, [0, 1, 0], {}, {}]
	cborData, _ := hex.DecodeString("9f0183000100a0a0ff")
	_, err := DecodeHandshake(cborData)
	assert.ErrorIs(t, err, ErrIndefiniteLength)
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestHandshakeTrailingData(t *testing.T) {
	cborData, _ := hex.DecodeString(defaultHandshakeHex + "ffff")
	_, err := DecodeHandshake(cborData)
	var trailingErr *TrailingDataError
	require.ErrorAs(t, err, &trailingErr)
	assert.Equal(t, 2, trailingErr.Count)
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestHandshakeCapabilities(t *testing.T) {
	hs := DefaultHandshake()
	assert.True(t, hs.CanSend(MessageCode(MessageTypeGetHeaders)))
	assert.False(t, hs.CanSend(MessageCode(MessageTypeSubscribe)))
	assert.True(t, hs.CanReceive(MessageCode(MessageTypeSubscribe)))
	assert.False(t, hs.CanReceive(0x5c))
}

func TestHandshakeString(t *testing.T) {
	str := DefaultHandshake().String()
	assert.Contains(t, str, "protocol magic: 764824073\n")
	assert.Contains(t, str, "version: 0.1.0\n")
	assert.Contains(t, str, "in handlers:\n  * 4 -> 5\n")
	assert.Contains(t, str, "out handlers:\n  * 4 -> 5\n")
	assert.Contains(t, str, "  * 98 -> 55\n")
}

func TestHandshakeConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t)
	cborData, err := hex.DecodeString(defaultHandshakeHex)
	require.NoError(t, err)
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hs, err := DecodeHandshake(cborData)
			if err != nil {
				errs <- err
				return
			}
			encoded, err := hs.Encode()
			if err != nil {
				errs <- err
				return
			}
			if hex.EncodeToString(encoded) != defaultHandshakeHex {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent handshake round trip failed: %s", err)
	}
}
