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

package squads

import (
	"bytes"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
)

// Permissions is the bitmask of actions a member may perform.
type Permissions struct {
	Mask uint8
}

// Has reports whether every bit of permission is set.
func (p Permissions) Has(permission uint8) bool {
	return p.Mask&permission == permission
}

func (p Permissions) String() string {
	if p.Mask == 0 {
		return "none"
	}
	var parts []string
	if p.Has(PermissionPropose) {
		parts = append(parts, "propose")
	}
	if p.Has(PermissionVote) {
		parts = append(parts, "vote")
	}
	if p.Has(PermissionExecute) {
		parts = append(parts, "execute")
	}
	return strings.Join(parts, "|")
}

// Member is one entry in the multisig member set.
type Member struct {
	Key         solana.PublicKey
	Permissions Permissions
}

// Multisig is the settings account of a squad.
type Multisig struct {
	CreateKey             solana.PublicKey
	ConfigAuthority       solana.PublicKey
	Threshold             uint16
	TimeLock              uint32
	TransactionIndex      uint64
	StaleTransactionIndex uint64
	RentCollector         *solana.PublicKey
	Bump                  uint8
	Members               []Member
}

// MemberPermissions returns the permissions of key, and whether key is a
// member at all.
func (ms *Multisig) MemberPermissions(key solana.PublicKey) (Permissions, bool) {
	for _, m := range ms.Members {
		if m.Key.Equals(key) {
			return m.Permissions, true
		}
	}
	return Permissions{}, false
}

// IsMember reports whether key belongs to the member set.
func (ms *Multisig) IsMember(key solana.PublicKey) bool {
	_, ok := ms.MemberPermissions(key)
	return ok
}

// DecodeMultisig parses a Multisig account from raw account data.
func DecodeMultisig(data []byte) (*Multisig, error) {
	decoder := bin.NewBorshDecoder(data)
	if err := checkDiscriminator(decoder, "Multisig"); err != nil {
		return nil, err
	}
	ms := &Multisig{}
	var err error
	if ms.CreateKey, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if ms.ConfigAuthority, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if ms.Threshold, err = decoder.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if ms.TimeLock, err = decoder.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	if ms.TransactionIndex, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ms.StaleTransactionIndex, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ms.RentCollector, err = readOptionalPublicKey(decoder); err != nil {
		return nil, err
	}
	if ms.Bump, err = decoder.ReadUint8(); err != nil {
		return nil, err
	}
	memberCount, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	ms.Members = make([]Member, 0, memberCount)
	for i := uint32(0); i < memberCount; i++ {
		var m Member
		if m.Key, err = readPublicKey(decoder); err != nil {
			return nil, err
		}
		if m.Permissions.Mask, err = decoder.ReadUint8(); err != nil {
			return nil, err
		}
		ms.Members = append(ms.Members, m)
	}
	return ms, nil
}

// ProposalStatusKind is the tag of the proposal status enum.
type ProposalStatusKind uint8

const (
	ProposalStatusDraft ProposalStatusKind = iota
	ProposalStatusActive
	ProposalStatusRejected
	ProposalStatusApproved
	ProposalStatusExecuting
	ProposalStatusExecuted
	ProposalStatusCancelled
)

func (k ProposalStatusKind) String() string {
	switch k {
	case ProposalStatusDraft:
		return "Draft"
	case ProposalStatusActive:
		return "Active"
	case ProposalStatusRejected:
		return "Rejected"
	case ProposalStatusApproved:
		return "Approved"
	case ProposalStatusExecuting:
		return "Executing"
	case ProposalStatusExecuted:
		return "Executed"
	case ProposalStatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// ProposalStatus records the current stage of a proposal. Every variant
// except Executing carries the unix timestamp of when it was entered.
type ProposalStatus struct {
	Kind      ProposalStatusKind
	Timestamp int64
}

func readProposalStatus(decoder *bin.Decoder) (ProposalStatus, error) {
	var status ProposalStatus
	tag, err := decoder.ReadUint8()
	if err != nil {
		return status, err
	}
	kind := ProposalStatusKind(tag)
	if kind > ProposalStatusCancelled {
		return status, fmt.Errorf("unknown proposal status tag %d", tag)
	}
	status.Kind = kind
	if kind == ProposalStatusExecuting {
		return status, nil
	}
	if status.Timestamp, err = decoder.ReadInt64(bin.LE); err != nil {
		return status, err
	}
	return status, nil
}

// Proposal is the vote record attached to a vault transaction.
type Proposal struct {
	Multisig         solana.PublicKey
	TransactionIndex uint64
	Status           ProposalStatus
	Bump             uint8
	Approved         []solana.PublicKey
	Rejected         []solana.PublicKey
	Cancelled        []solana.PublicKey
}

// HasApproved reports whether key already cast an approve vote.
func (p *Proposal) HasApproved(key solana.PublicKey) bool {
	return containsKey(p.Approved, key)
}

// HasRejected reports whether key already cast a reject vote.
func (p *Proposal) HasRejected(key solana.PublicKey) bool {
	return containsKey(p.Rejected, key)
}

func containsKey(keys []solana.PublicKey, key solana.PublicKey) bool {
	for _, k := range keys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}

// DecodeProposal parses a Proposal account from raw account data.
func DecodeProposal(data []byte) (*Proposal, error) {
	decoder := bin.NewBorshDecoder(data)
	if err := checkDiscriminator(decoder, "Proposal"); err != nil {
		return nil, err
	}
	p := &Proposal{}
	var err error
	if p.Multisig, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if p.TransactionIndex, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.Status, err = readProposalStatus(decoder); err != nil {
		return nil, err
	}
	if p.Bump, err = decoder.ReadUint8(); err != nil {
		return nil, err
	}
	if p.Approved, err = readPublicKeyVec(decoder); err != nil {
		return nil, err
	}
	if p.Rejected, err = readPublicKeyVec(decoder); err != nil {
		return nil, err
	}
	if p.Cancelled, err = readPublicKeyVec(decoder); err != nil {
		return nil, err
	}
	return p, nil
}

// CompiledVaultInstruction is one instruction inside a vault transaction
// message, indexes referring into the message account table.
type CompiledVaultInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// MessageAddressTableLookup points at an address lookup table used by the
// vault transaction.
type MessageAddressTableLookup struct {
	AccountKey      solana.PublicKey
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// VaultTransactionMessage is the compact message format the program stores,
// length prefixes shrunk to u8 (u16 for instruction data).
type VaultTransactionMessage struct {
	NumSigners            uint8
	NumWritableSigners    uint8
	NumWritableNonSigners uint8
	AccountKeys           []solana.PublicKey
	Instructions          []CompiledVaultInstruction
	AddressTableLookups   []MessageAddressTableLookup
}

// IsStaticWritable reports whether the static account at index is writable.
// Keys are packed as writable signers, readonly signers, writable
// non-signers, readonly non-signers.
func (msg *VaultTransactionMessage) IsStaticWritable(index int) bool {
	if index < int(msg.NumWritableSigners) {
		return true
	}
	return index >= int(msg.NumSigners) &&
		index < int(msg.NumSigners)+int(msg.NumWritableNonSigners)
}

// IsSignerIndex reports whether the static account at index signed the
// original message.
func (msg *VaultTransactionMessage) IsSignerIndex(index int) bool {
	return index < int(msg.NumSigners)
}

// UnmarshalWithDecoder implements the bin.BinaryUnmarshaler interface.
func (msg *VaultTransactionMessage) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if msg.NumSigners, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if msg.NumWritableSigners, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if msg.NumWritableNonSigners, err = decoder.ReadUint8(); err != nil {
		return err
	}
	keyCount, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	msg.AccountKeys = make([]solana.PublicKey, 0, keyCount)
	for i := uint8(0); i < keyCount; i++ {
		key, err := readPublicKey(decoder)
		if err != nil {
			return err
		}
		msg.AccountKeys = append(msg.AccountKeys, key)
	}
	instructionCount, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	msg.Instructions = make([]CompiledVaultInstruction, 0, instructionCount)
	for i := uint8(0); i < instructionCount; i++ {
		var ix CompiledVaultInstruction
		if ix.ProgramIDIndex, err = decoder.ReadUint8(); err != nil {
			return err
		}
		accountCount, err := decoder.ReadUint8()
		if err != nil {
			return err
		}
		if accountCount > 0 {
			if ix.AccountIndexes, err = decoder.ReadNBytes(int(accountCount)); err != nil {
				return err
			}
		}
		dataLen, err := decoder.ReadUint16(bin.LE)
		if err != nil {
			return err
		}
		if dataLen > 0 {
			if ix.Data, err = decoder.ReadNBytes(int(dataLen)); err != nil {
				return err
			}
		}
		msg.Instructions = append(msg.Instructions, ix)
	}
	lookupCount, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	msg.AddressTableLookups = make([]MessageAddressTableLookup, 0, lookupCount)
	for i := uint8(0); i < lookupCount; i++ {
		var lookup MessageAddressTableLookup
		if lookup.AccountKey, err = readPublicKey(decoder); err != nil {
			return err
		}
		writableCount, err := decoder.ReadUint8()
		if err != nil {
			return err
		}
		if writableCount > 0 {
			if lookup.WritableIndexes, err = decoder.ReadNBytes(int(writableCount)); err != nil {
				return err
			}
		}
		readonlyCount, err := decoder.ReadUint8()
		if err != nil {
			return err
		}
		if readonlyCount > 0 {
			if lookup.ReadonlyIndexes, err = decoder.ReadNBytes(int(readonlyCount)); err != nil {
				return err
			}
		}
		msg.AddressTableLookups = append(msg.AddressTableLookups, lookup)
	}
	return nil
}

// VaultTransaction is the stored form of a transaction to be executed from a
// vault.
type VaultTransaction struct {
	Multisig             solana.PublicKey
	Creator              solana.PublicKey
	Index                uint64
	Bump                 uint8
	VaultIndex           uint8
	VaultBump            uint8
	EphemeralSignerBumps []uint8
	Message              VaultTransactionMessage
}

// DecodeVaultTransaction parses a VaultTransaction account from raw account
// data.
func DecodeVaultTransaction(data []byte) (*VaultTransaction, error) {
	decoder := bin.NewBorshDecoder(data)
	if err := checkDiscriminator(decoder, "VaultTransaction"); err != nil {
		return nil, err
	}
	tx := &VaultTransaction{}
	var err error
	if tx.Multisig, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if tx.Creator, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if tx.Index, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if tx.Bump, err = decoder.ReadUint8(); err != nil {
		return nil, err
	}
	if tx.VaultIndex, err = decoder.ReadUint8(); err != nil {
		return nil, err
	}
	if tx.VaultBump, err = decoder.ReadUint8(); err != nil {
		return nil, err
	}
	bumpCount, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	if bumpCount > 0 {
		if tx.EphemeralSignerBumps, err = decoder.ReadNBytes(int(bumpCount)); err != nil {
			return nil, err
		}
	}
	if err = tx.Message.UnmarshalWithDecoder(decoder); err != nil {
		return nil, err
	}
	return tx, nil
}

// ProgramConfig is the global config account holding the creation fee and
// treasury.
type ProgramConfig struct {
	Authority           solana.PublicKey
	MultisigCreationFee uint64
	Treasury            solana.PublicKey
}

// DecodeProgramConfig parses a ProgramConfig account from raw account data.
func DecodeProgramConfig(data []byte) (*ProgramConfig, error) {
	decoder := bin.NewBorshDecoder(data)
	if err := checkDiscriminator(decoder, "ProgramConfig"); err != nil {
		return nil, err
	}
	cfg := &ProgramConfig{}
	var err error
	if cfg.Authority, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	if cfg.MultisigCreationFee, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if cfg.Treasury, err = readPublicKey(decoder); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkDiscriminator(decoder *bin.Decoder, name string) error {
	got, err := decoder.ReadNBytes(8)
	if err != nil {
		return fmt.Errorf("reading %s discriminator: %w", name, err)
	}
	if !bytes.Equal(got, AccountDiscriminator(name)) {
		return fmt.Errorf("account data is not a %s account", name)
	}
	return nil
}

func readPublicKey(decoder *bin.Decoder) (solana.PublicKey, error) {
	b, err := decoder.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func readOptionalPublicKey(decoder *bin.Decoder) (*solana.PublicKey, error) {
	set, err := decoder.ReadBool()
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, nil
	}
	key, err := readPublicKey(decoder)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func readPublicKeyVec(decoder *bin.Decoder) ([]solana.PublicKey, error) {
	count, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	keys := make([]solana.PublicKey, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := readPublicKey(decoder)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func readOptionalString(decoder *bin.Decoder) (*string, error) {
	set, err := decoder.ReadBool()
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, nil
	}
	s, err := decoder.ReadString()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func writeOptionalPublicKey(encoder *bin.Encoder, key *solana.PublicKey) error {
	if err := encoder.WriteBool(key != nil); err != nil {
		return err
	}
	if key == nil {
		return nil
	}
	return encoder.WriteBytes(key.Bytes(), false)
}

func writeOptionalString(encoder *bin.Encoder, s *string) error {
	if err := encoder.WriteBool(s != nil); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return encoder.WriteString(*s)
}
