// Copyright 2025 github.com/ricardocr987
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package squadslegacy builds Squads v4 vault transactions out of
// decert-me/solana-go-sdk instruction values.
package squadslegacy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/decert-me/solana-go-sdk/common"
	"github.com/decert-me/solana-go-sdk/types"
)

// CompiledInstruction is one instruction of a compact message, accounts
// referenced by index into the message account table.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// TransactionMessage is the compact message layout the multisig program
// stores: counts up front, account table, instructions. Length prefixes are
// u8, instruction data u16. Address table lookups are never emitted.
type TransactionMessage struct {
	NumSigners            uint8
	NumWritableSigners    uint8
	NumWritableNonSigners uint8
	AccountKeys           []common.PublicKey
	Instructions          []CompiledInstruction
}

type compiledKey struct {
	key      common.PublicKey
	signer   bool
	writable bool
}

// CompileMessage compiles instructions into a compact message with the vault
// as fee payer. Keys are packed writable signers first, then readonly
// signers, writable non-signers, readonly non-signers, each class in order
// of first appearance.
func CompileMessage(vault common.PublicKey, instructions []types.Instruction) (*TransactionMessage, error) {
	if len(instructions) == 0 {
		return nil, errors.New("no instructions to compile")
	}

	keys := []*compiledKey{{key: vault, signer: true, writable: true}}
	index := map[common.PublicKey]*compiledKey{vault: keys[0]}
	upsert := func(key common.PublicKey, signer, writable bool) {
		if entry, ok := index[key]; ok {
			entry.signer = entry.signer || signer
			entry.writable = entry.writable || writable
			return
		}
		entry := &compiledKey{key: key, signer: signer, writable: writable}
		index[key] = entry
		keys = append(keys, entry)
	}
	for _, ix := range instructions {
		for _, meta := range ix.Accounts {
			upsert(meta.PubKey, meta.IsSigner, meta.IsWritable)
		}
		upsert(ix.ProgramID, false, false)
	}

	var writableSigners, readonlySigners, writableNonSigners, readonlyNonSigners []*compiledKey
	for _, entry := range keys {
		switch {
		case entry.signer && entry.writable:
			writableSigners = append(writableSigners, entry)
		case entry.signer:
			readonlySigners = append(readonlySigners, entry)
		case entry.writable:
			writableNonSigners = append(writableNonSigners, entry)
		default:
			readonlyNonSigners = append(readonlyNonSigners, entry)
		}
	}
	ordered := make([]*compiledKey, 0, len(keys))
	ordered = append(ordered, writableSigners...)
	ordered = append(ordered, readonlySigners...)
	ordered = append(ordered, writableNonSigners...)
	ordered = append(ordered, readonlyNonSigners...)
	if len(ordered) > math.MaxUint8 {
		return nil, fmt.Errorf("message needs %d accounts, the compact format allows %d", len(ordered), math.MaxUint8)
	}

	msg := &TransactionMessage{
		NumSigners:            uint8(len(writableSigners) + len(readonlySigners)),
		NumWritableSigners:    uint8(len(writableSigners)),
		NumWritableNonSigners: uint8(len(writableNonSigners)),
	}
	position := make(map[common.PublicKey]uint8, len(ordered))
	for i, entry := range ordered {
		position[entry.key] = uint8(i)
		msg.AccountKeys = append(msg.AccountKeys, entry.key)
	}

	for _, ix := range instructions {
		if len(ix.Accounts) > math.MaxUint8 {
			return nil, fmt.Errorf("instruction references %d accounts, the compact format allows %d", len(ix.Accounts), math.MaxUint8)
		}
		if len(ix.Data) > math.MaxUint16 {
			return nil, fmt.Errorf("instruction data is %d bytes, the compact format allows %d", len(ix.Data), math.MaxUint16)
		}
		compiled := CompiledInstruction{
			ProgramIDIndex: position[ix.ProgramID],
			Data:           ix.Data,
		}
		for _, meta := range ix.Accounts {
			compiled.AccountIndexes = append(compiled.AccountIndexes, position[meta.PubKey])
		}
		msg.Instructions = append(msg.Instructions, compiled)
	}
	return msg, nil
}

// Encode serializes the message in the program's wire layout.
func (msg *TransactionMessage) Encode() ([]byte, error) {
	if len(msg.AccountKeys) > math.MaxUint8 {
		return nil, fmt.Errorf("message holds %d accounts, the compact format allows %d", len(msg.AccountKeys), math.MaxUint8)
	}
	if len(msg.Instructions) > math.MaxUint8 {
		return nil, fmt.Errorf("message holds %d instructions, the compact format allows %d", len(msg.Instructions), math.MaxUint8)
	}
	buf := new(bytes.Buffer)
	buf.WriteByte(msg.NumSigners)
	buf.WriteByte(msg.NumWritableSigners)
	buf.WriteByte(msg.NumWritableNonSigners)
	buf.WriteByte(uint8(len(msg.AccountKeys)))
	for _, key := range msg.AccountKeys {
		buf.Write(key.Bytes())
	}
	buf.WriteByte(uint8(len(msg.Instructions)))
	for _, ix := range msg.Instructions {
		if len(ix.AccountIndexes) > math.MaxUint8 {
			return nil, fmt.Errorf("instruction references %d accounts, the compact format allows %d", len(ix.AccountIndexes), math.MaxUint8)
		}
		if len(ix.Data) > math.MaxUint16 {
			return nil, fmt.Errorf("instruction data is %d bytes, the compact format allows %d", len(ix.Data), math.MaxUint16)
		}
		buf.WriteByte(ix.ProgramIDIndex)
		buf.WriteByte(uint8(len(ix.AccountIndexes)))
		buf.Write(ix.AccountIndexes)
		var dataLen [2]byte
		binary.LittleEndian.PutUint16(dataLen[:], uint16(len(ix.Data)))
		buf.Write(dataLen[:])
		buf.Write(ix.Data)
	}
	buf.WriteByte(0) // no address table lookups
	return buf.Bytes(), nil
}
