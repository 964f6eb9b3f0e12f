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
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	text "github.com/gagliardetto/solana-go/text"
	treeout "github.com/gagliardetto/treeout"
)

// ProgramName is the name of the Squads multisig program (v4).
const ProgramName = "Squads Multisig Program"

// ProgramID is the v4 deployment, identical on mainnet and devnet.
var ProgramID = solana.MustPublicKeyFromBase58("SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf")

// Permission bits a member can hold, OR-ed into a mask.
const (
	PermissionPropose uint8 = 1 << 0
	PermissionVote    uint8 = 1 << 1
	PermissionExecute uint8 = 1 << 2
	PermissionFull          = PermissionPropose | PermissionVote | PermissionExecute
)

// InstructionDiscriminator returns the 8-byte Anchor discriminator for a
// global instruction: sha256("global:<name>")[:8].
func InstructionDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("global:" + name))
	return h[:8]
}

// AccountDiscriminator returns the 8-byte Anchor discriminator for an
// account type: sha256("account:<Name>")[:8].
func AccountDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:8]
}

func discriminatorTypeID(name string) bin.TypeID {
	return bin.TypeIDFromBytes(InstructionDiscriminator(name))
}

var (
	instructionMultisigCreateV2              = discriminatorTypeID("multisig_create_v2")
	instructionProposalCreate                = discriminatorTypeID("proposal_create")
	instructionProposalApprove               = discriminatorTypeID("proposal_approve")
	instructionProposalReject                = discriminatorTypeID("proposal_reject")
	instructionProposalCancel                = discriminatorTypeID("proposal_cancel")
	instructionVaultTransactionExecute       = discriminatorTypeID("vault_transaction_execute")
	instructionVaultTransactionAccountsClose = discriminatorTypeID("vault_transaction_accounts_close")
)

// InstructionImpl is the interface that all instructions implement.
type InstructionImpl interface {
	bin.EncoderDecoder
	Validate() error
}

// AccountMetaGettable is an interface for getting account metas.
type AccountMetaGettable interface {
	GetAccounts() []*solana.AccountMeta
}

// Instruction is the base type wrapped around every builder in this package.
type Instruction struct {
	bin.BaseVariant
}

// ProgramID returns the program ID.
func (inst *Instruction) ProgramID() solana.PublicKey {
	return ProgramID
}

// Accounts returns the list of accounts this instruction requires.
func (inst *Instruction) Accounts() []*solana.AccountMeta {
	return inst.Impl.(AccountMetaGettable).GetAccounts()
}

// Data serializes the discriminator followed by the instruction arguments.
func (inst *Instruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	encoder := bin.NewBorshEncoder(buf)
	err := encoder.Encode(inst)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalWithEncoder implements the bin.EncoderDecoder interface.
func (inst *Instruction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteBytes(inst.TypeID.Bytes(), false); err != nil {
		return err
	}
	return encoder.Encode(inst.Impl)
}

// UnmarshalWithDecoder implements the bin.EncoderDecoder interface.
func (inst *Instruction) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return decoder.Decode(inst.Impl)
}

func (inst *Instruction) EncodeToTree(parent treeout.Branches) {
	if enToTree, ok := inst.Impl.(text.EncodableToTree); ok {
		enToTree.EncodeToTree(parent)
	}
}

var _ solana.Instruction = (*Instruction)(nil)
var _ bin.EncoderDecoder = (*Instruction)(nil)
