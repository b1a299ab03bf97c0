// Package abicodec decodes raw ABI-encoded call return data at the byte
// level, one pure function per supported return type.
package abicodec

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const wordSize = 32

// FromHex converts a 0x-prefixed payload into bytes. An empty payload
// ("0x" or "") yields an empty slice, not an error; the per-type
// decoders reject it instead.
func FromHex(payload string) ([]byte, error) {
	if payload == "" || payload == "0x" {
		return nil, nil
	}
	data, err := hexutil.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return data, nil
}

func word(data []byte, index int) ([]byte, error) {
	start := index * wordSize
	end := start + wordSize
	if len(data) < end {
		return nil, fmt.Errorf("payload too short: need %d bytes, have %d", end, len(data))
	}
	return data[start:end], nil
}

// DecodeUint256 reads a uint256 scalar from the first 32-byte word.
func DecodeUint256(data []byte) (*big.Int, error) {
	w, err := word(data, 0)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(w), nil
}

// DecodeUint8 reads a uint8 scalar from the rightmost byte of the first
// word, rejecting payloads with high bytes set.
func DecodeUint8(data []byte) (uint8, error) {
	w, err := word(data, 0)
	if err != nil {
		return 0, err
	}
	for _, b := range w[:wordSize-1] {
		if b != 0 {
			return 0, fmt.Errorf("uint8 overflow in payload")
		}
	}
	return w[wordSize-1], nil
}

// DecodeAddress reads an address from the rightmost 20 bytes of the
// first word.
func DecodeAddress(data []byte) (common.Address, error) {
	w, err := word(data, 0)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(w[wordSize-20:]), nil
}

// DecodeString reads a dynamic string return: an offset word pointing at
// a length word followed by that many bytes of UTF-8 payload.
func DecodeString(data []byte) (string, error) {
	offsetWord, err := word(data, 0)
	if err != nil {
		return "", err
	}
	// Compare offset and length as uint64 against the payload size before
	// any int arithmetic; a hostile word near MaxInt64 must not wrap the
	// slice bounds negative.
	offset := new(big.Int).SetBytes(offsetWord)
	if !offset.IsUint64() || offset.Uint64() > uint64(len(data)-wordSize) {
		return "", fmt.Errorf("string offset out of range")
	}

	start := int(offset.Uint64())
	length := new(big.Int).SetBytes(data[start : start+wordSize])
	payloadStart := start + wordSize
	if !length.IsUint64() || length.Uint64() > uint64(len(data)-payloadStart) {
		return "", fmt.Errorf("string length out of range")
	}
	payloadEnd := payloadStart + int(length.Uint64())

	text := string(data[payloadStart:payloadEnd])
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("string payload is not valid UTF-8")
	}
	return text, nil
}
