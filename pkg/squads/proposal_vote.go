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

// The three vote instructions share one account shape.
func voteAccounts(multisig, member, proposal solana.PublicKey) []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{
			PublicKey:  multisig,
			IsSigner:   false,
			IsWritable: false,
		},
		{
			PublicKey:  member,
			IsSigner:   true,
			IsWritable: true,
		},
		{
			PublicKey:  proposal,
			IsSigner:   false,
			IsWritable: true,
		},
	}
}

func validateVote(transactionIndex uint64, multisig, member solana.PublicKey) error {
	if transactionIndex == 0 {
		return errors.New("TransactionIndex not set")
	}
	if multisig.IsZero() {
		return errors.New("Multisig not set")
	}
	if member.IsZero() {
		return errors.New("Member not set")
	}
	_, _, err := FindProposalPDA(multisig, transactionIndex)
	if err != nil {
		return fmt.Errorf("error while FindProposalPDA: %w", err)
	}
	return nil
}

func encodeVoteTree(parent treeout.Branches, name string, memo *string, accounts solana.AccountMetaSlice) {
	parent.Child(format.Program(ProgramName, ProgramID)).
		//
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction(name)).
				//
				ParentFunc(func(instructionBranch treeout.Branches) {

					// Parameters of the instruction:
					instructionBranch.Child("Params[len=1]").ParentFunc(func(paramsBranch treeout.Branches) {
						paramsBranch.Child(format.Param("Memo", memo))
					})

					// Accounts of the instruction:
					instructionBranch.Child("Accounts[len=3]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta(" multisig", accounts.Get(0)))
						accountsBranch.Child(format.Meta("   member", accounts.Get(1)))
						accountsBranch.Child(format.Meta(" proposal", accounts.Get(2)))
					})
				})
		})
}

// ProposalApprove casts an approve vote on an active proposal.
type ProposalApprove struct {
	Memo *string

	TransactionIndex uint64           `bin:"-" borsh_skip:"true"`
	Multisig         solana.PublicKey `bin:"-" borsh_skip:"true"`
	Member           solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the proposal belongs to
	//
	// [1] = [WRITE, SIGNER] Member
	// ··········· Voting member, must hold the vote permission
	//
	// [2] = [WRITE] Proposal
	// ··········· Proposal account the vote is recorded on
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewProposalApproveInstructionBuilder creates a new `ProposalApprove` instruction builder.
func NewProposalApproveInstructionBuilder() *ProposalApprove {
	nd := &ProposalApprove{}
	return nd
}

func (inst *ProposalApprove) SetMemo(memo string) *ProposalApprove {
	inst.Memo = &memo
	return inst
}

func (inst *ProposalApprove) SetTransactionIndex(index uint64) *ProposalApprove {
	inst.TransactionIndex = index
	return inst
}

func (inst *ProposalApprove) SetMultisig(multisig solana.PublicKey) *ProposalApprove {
	inst.Multisig = multisig
	return inst
}

func (inst *ProposalApprove) SetMember(member solana.PublicKey) *ProposalApprove {
	inst.Member = member
	return inst
}

func (inst ProposalApprove) Build() *Instruction {

	proposal, _, _ := FindProposalPDA(inst.Multisig, inst.TransactionIndex)

	inst.AccountMetaSlice = voteAccounts(inst.Multisig, inst.Member, proposal)

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: instructionProposalApprove,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst ProposalApprove) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *ProposalApprove) Validate() error {
	return validateVote(inst.TransactionIndex, inst.Multisig, inst.Member)
}

func (inst *ProposalApprove) EncodeToTree(parent treeout.Branches) {
	encodeVoteTree(parent, "ProposalApprove", inst.Memo, inst.AccountMetaSlice)
}

func (inst ProposalApprove) MarshalWithEncoder(encoder *bin.Encoder) error {
	return writeOptionalString(encoder, inst.Memo)
}

func (inst *ProposalApprove) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	inst.Memo, err = readOptionalString(decoder)
	return err
}

// GetAccounts implements the AccountMetaGettable interface
func (inst ProposalApprove) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewProposalApproveInstruction approves the proposal at transactionIndex.
func NewProposalApproveInstruction(
	multisig solana.PublicKey,
	member solana.PublicKey,
	transactionIndex uint64,
) *ProposalApprove {
	return NewProposalApproveInstructionBuilder().
		SetMultisig(multisig).
		SetMember(member).
		SetTransactionIndex(transactionIndex)
}

// ProposalReject casts a reject vote on an active proposal.
type ProposalReject struct {
	Memo *string

	TransactionIndex uint64           `bin:"-" borsh_skip:"true"`
	Multisig         solana.PublicKey `bin:"-" borsh_skip:"true"`
	Member           solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the proposal belongs to
	//
	// [1] = [WRITE, SIGNER] Member
	// ··········· Voting member, must hold the vote permission
	//
	// [2] = [WRITE] Proposal
	// ··········· Proposal account the vote is recorded on
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewProposalRejectInstructionBuilder creates a new `ProposalReject` instruction builder.
func NewProposalRejectInstructionBuilder() *ProposalReject {
	nd := &ProposalReject{}
	return nd
}

func (inst *ProposalReject) SetMemo(memo string) *ProposalReject {
	inst.Memo = &memo
	return inst
}

func (inst *ProposalReject) SetTransactionIndex(index uint64) *ProposalReject {
	inst.TransactionIndex = index
	return inst
}

func (inst *ProposalReject) SetMultisig(multisig solana.PublicKey) *ProposalReject {
	inst.Multisig = multisig
	return inst
}

func (inst *ProposalReject) SetMember(member solana.PublicKey) *ProposalReject {
	inst.Member = member
	return inst
}

func (inst ProposalReject) Build() *Instruction {

	proposal, _, _ := FindProposalPDA(inst.Multisig, inst.TransactionIndex)

	inst.AccountMetaSlice = voteAccounts(inst.Multisig, inst.Member, proposal)

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: instructionProposalReject,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst ProposalReject) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *ProposalReject) Validate() error {
	return validateVote(inst.TransactionIndex, inst.Multisig, inst.Member)
}

func (inst *ProposalReject) EncodeToTree(parent treeout.Branches) {
	encodeVoteTree(parent, "ProposalReject", inst.Memo, inst.AccountMetaSlice)
}

func (inst ProposalReject) MarshalWithEncoder(encoder *bin.Encoder) error {
	return writeOptionalString(encoder, inst.Memo)
}

func (inst *ProposalReject) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	inst.Memo, err = readOptionalString(decoder)
	return err
}

// GetAccounts implements the AccountMetaGettable interface
func (inst ProposalReject) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewProposalRejectInstruction rejects the proposal at transactionIndex.
func NewProposalRejectInstruction(
	multisig solana.PublicKey,
	member solana.PublicKey,
	transactionIndex uint64,
) *ProposalReject {
	return NewProposalRejectInstructionBuilder().
		SetMultisig(multisig).
		SetMember(member).
		SetTransactionIndex(transactionIndex)
}

// ProposalCancel cancels an approved proposal before it executes.
type ProposalCancel struct {
	Memo *string

	TransactionIndex uint64           `bin:"-" borsh_skip:"true"`
	Multisig         solana.PublicKey `bin:"-" borsh_skip:"true"`
	Member           solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the proposal belongs to
	//
	// [1] = [WRITE, SIGNER] Member
	// ··········· Voting member, must hold the vote permission
	//
	// [2] = [WRITE] Proposal
	// ··········· Proposal account the vote is recorded on
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewProposalCancelInstructionBuilder creates a new `ProposalCancel` instruction builder.
func NewProposalCancelInstructionBuilder() *ProposalCancel {
	nd := &ProposalCancel{}
	return nd
}

func (inst *ProposalCancel) SetMemo(memo string) *ProposalCancel {
	inst.Memo = &memo
	return inst
}

func (inst *ProposalCancel) SetTransactionIndex(index uint64) *ProposalCancel {
	inst.TransactionIndex = index
	return inst
}

func (inst *ProposalCancel) SetMultisig(multisig solana.PublicKey) *ProposalCancel {
	inst.Multisig = multisig
	return inst
}

func (inst *ProposalCancel) SetMember(member solana.PublicKey) *ProposalCancel {
	inst.Member = member
	return inst
}

func (inst ProposalCancel) Build() *Instruction {

	proposal, _, _ := FindProposalPDA(inst.Multisig, inst.TransactionIndex)

	inst.AccountMetaSlice = voteAccounts(inst.Multisig, inst.Member, proposal)

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: instructionProposalCancel,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst ProposalCancel) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *ProposalCancel) Validate() error {
	return validateVote(inst.TransactionIndex, inst.Multisig, inst.Member)
}

func (inst *ProposalCancel) EncodeToTree(parent treeout.Branches) {
	encodeVoteTree(parent, "ProposalCancel", inst.Memo, inst.AccountMetaSlice)
}

func (inst ProposalCancel) MarshalWithEncoder(encoder *bin.Encoder) error {
	return writeOptionalString(encoder, inst.Memo)
}

func (inst *ProposalCancel) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	inst.Memo, err = readOptionalString(decoder)
	return err
}

// GetAccounts implements the AccountMetaGettable interface
func (inst ProposalCancel) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewProposalCancelInstruction cancels the proposal at transactionIndex.
func NewProposalCancelInstruction(
	multisig solana.PublicKey,
	member solana.PublicKey,
	transactionIndex uint64,
) *ProposalCancel {
	return NewProposalCancelInstructionBuilder().
		SetMultisig(multisig).
		SetMember(member).
		SetTransactionIndex(transactionIndex)
}
