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
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	format "github.com/gagliardetto/solana-go/text/format"
	treeout "github.com/gagliardetto/treeout"
)

// ProposalCreate opens the vote record for a vault transaction index.
type ProposalCreate struct {
	TransactionIndex uint64
	Draft            bool

	Multisig  solana.PublicKey `bin:"-" borsh_skip:"true"`
	Creator   solana.PublicKey `bin:"-" borsh_skip:"true"`
	RentPayer solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the proposal belongs to
	//
	// [1] = [WRITE] Proposal
	// ··········· Proposal account to be created
	//
	// [2] = [SIGNER] Creator
	// ··········· Member opening the proposal
	//
	// [3] = [WRITE, SIGNER] RentPayer
	// ··········· Pays rent for the proposal account
	//
	// [4] = [] SystemProgram
	// ··········· System program ID
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewProposalCreateInstructionBuilder creates a new `ProposalCreate` instruction builder.
func NewProposalCreateInstructionBuilder() *ProposalCreate {
	nd := &ProposalCreate{}
	return nd
}

func (inst *ProposalCreate) SetTransactionIndex(index uint64) *ProposalCreate {
	inst.TransactionIndex = index
	return inst
}

func (inst *ProposalCreate) SetDraft(draft bool) *ProposalCreate {
	inst.Draft = draft
	return inst
}

func (inst *ProposalCreate) SetMultisig(multisig solana.PublicKey) *ProposalCreate {
	inst.Multisig = multisig
	return inst
}

func (inst *ProposalCreate) SetCreator(creator solana.PublicKey) *ProposalCreate {
	inst.Creator = creator
	return inst
}

func (inst *ProposalCreate) SetRentPayer(rentPayer solana.PublicKey) *ProposalCreate {
	inst.RentPayer = rentPayer
	return inst
}

func (inst ProposalCreate) Build() *Instruction {

	proposal, _, _ := FindProposalPDA(inst.Multisig, inst.TransactionIndex)

	keys := []*solana.AccountMeta{
		{
			PublicKey:  inst.Multisig,
			IsSigner:   false,
			IsWritable: false,
		},
		{
			PublicKey:  proposal,
			IsSigner:   false,
			IsWritable: true,
		},
		{
			PublicKey:  inst.Creator,
			IsSigner:   true,
			IsWritable: false,
		},
		{
			PublicKey:  inst.RentPayer,
			IsSigner:   true,
			IsWritable: true,
		},
		{
			PublicKey:  solana.SystemProgramID,
			IsSigner:   false,
			IsWritable: false,
		},
	}

	inst.AccountMetaSlice = keys

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: instructionProposalCreate,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst ProposalCreate) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *ProposalCreate) Validate() error {
	if inst.TransactionIndex == 0 {
		return errors.New("TransactionIndex not set")
	}
	if inst.Multisig.IsZero() {
		return errors.New("Multisig not set")
	}
	if inst.Creator.IsZero() {
		return errors.New("Creator not set")
	}
	if inst.RentPayer.IsZero() {
		return errors.New("RentPayer not set")
	}
	_, _, err := FindProposalPDA(inst.Multisig, inst.TransactionIndex)
	if err != nil {
		return fmt.Errorf("error while FindProposalPDA: %w", err)
	}
	return nil
}

func (inst *ProposalCreate) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, ProgramID)).
		//
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("ProposalCreate")).
				//
				ParentFunc(func(instructionBranch treeout.Branches) {

					// Parameters of the instruction:
					instructionBranch.Child("Params[len=2]").ParentFunc(func(paramsBranch treeout.Branches) {
						paramsBranch.Child(format.Param("TransactionIndex", inst.TransactionIndex))
						paramsBranch.Child(format.Param("           Draft", inst.Draft))
					})

					// Accounts of the instruction:
					instructionBranch.Child("Accounts[len=5]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta("      multisig", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("      proposal", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta("       creator", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta("     rentPayer", inst.AccountMetaSlice.Get(3)))
						accountsBranch.Child(format.Meta(" systemProgram", inst.AccountMetaSlice.Get(4)))
					})
				})
		})
}

func (inst ProposalCreate) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint64(inst.TransactionIndex, bin.LE); err != nil {
		return err
	}
	return encoder.WriteBool(inst.Draft)
}

func (inst *ProposalCreate) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if inst.TransactionIndex, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	inst.Draft, err = decoder.ReadBool()
	return err
}

// GetAccounts implements the AccountMetaGettable interface
func (inst ProposalCreate) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewProposalCreateInstruction opens the proposal for transactionIndex, with
// creator paying rent.
func NewProposalCreateInstruction(
	multisig solana.PublicKey,
	creator solana.PublicKey,
	transactionIndex uint64,
) *ProposalCreate {
	return NewProposalCreateInstructionBuilder().
		SetMultisig(multisig).
		SetCreator(creator).
		SetRentPayer(creator).
		SetTransactionIndex(transactionIndex)
}
