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

// VaultTransactionAccountsClose closes the proposal and transaction accounts
// of a settled transaction, refunding rent to the rent collector.
type VaultTransactionAccountsClose struct {
	TransactionIndex uint64           `bin:"-" borsh_skip:"true"`
	Multisig         solana.PublicKey `bin:"-" borsh_skip:"true"`
	RentCollector    solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the transaction belongs to
	//
	// [1] = [WRITE] Proposal
	// ··········· Proposal account to be closed
	//
	// [2] = [WRITE] Transaction
	// ··········· Vault transaction account to be closed
	//
	// [3] = [WRITE] RentCollector
	// ··········· Receives the reclaimed rent, must match the multisig settings
	//
	// [4] = [] SystemProgram
	// ··········· System program ID
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewVaultTransactionAccountsCloseInstructionBuilder creates a new `VaultTransactionAccountsClose` instruction builder.
func NewVaultTransactionAccountsCloseInstructionBuilder() *VaultTransactionAccountsClose {
	nd := &VaultTransactionAccountsClose{}
	return nd
}

func (inst *VaultTransactionAccountsClose) SetTransactionIndex(index uint64) *VaultTransactionAccountsClose {
	inst.TransactionIndex = index
	return inst
}

func (inst *VaultTransactionAccountsClose) SetMultisig(multisig solana.PublicKey) *VaultTransactionAccountsClose {
	inst.Multisig = multisig
	return inst
}

func (inst *VaultTransactionAccountsClose) SetRentCollector(collector solana.PublicKey) *VaultTransactionAccountsClose {
	inst.RentCollector = collector
	return inst
}

func (inst VaultTransactionAccountsClose) Build() *Instruction {

	proposal, _, _ := FindProposalPDA(inst.Multisig, inst.TransactionIndex)
	transaction, _, _ := FindTransactionPDA(inst.Multisig, inst.TransactionIndex)

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
			PublicKey:  transaction,
			IsSigner:   false,
			IsWritable: true,
		},
		{
			PublicKey:  inst.RentCollector,
			IsSigner:   false,
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
		TypeID: instructionVaultTransactionAccountsClose,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst VaultTransactionAccountsClose) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *VaultTransactionAccountsClose) Validate() error {
	if inst.TransactionIndex == 0 {
		return errors.New("TransactionIndex not set")
	}
	if inst.Multisig.IsZero() {
		return errors.New("Multisig not set")
	}
	if inst.RentCollector.IsZero() {
		return errors.New("RentCollector not set")
	}
	_, _, err := FindTransactionPDA(inst.Multisig, inst.TransactionIndex)
	if err != nil {
		return fmt.Errorf("error while FindTransactionPDA: %w", err)
	}
	return nil
}

func (inst *VaultTransactionAccountsClose) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, ProgramID)).
		//
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("VaultTransactionAccountsClose")).
				//
				ParentFunc(func(instructionBranch treeout.Branches) {

					// Parameters of the instruction:
					instructionBranch.Child("Params[len=0]").ParentFunc(func(paramsBranch treeout.Branches) {})

					// Accounts of the instruction:
					instructionBranch.Child("Accounts[len=5]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta("      multisig", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("      proposal", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta("   transaction", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta(" rentCollector", inst.AccountMetaSlice.Get(3)))
						accountsBranch.Child(format.Meta(" systemProgram", inst.AccountMetaSlice.Get(4)))
					})
				})
		})
}

func (inst VaultTransactionAccountsClose) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes([]byte{}, false)
}

func (inst *VaultTransactionAccountsClose) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return nil
}

// GetAccounts implements the AccountMetaGettable interface
func (inst VaultTransactionAccountsClose) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewVaultTransactionAccountsCloseInstruction closes the settled transaction
// at transactionIndex and refunds rent to rentCollector.
func NewVaultTransactionAccountsCloseInstruction(
	multisig solana.PublicKey,
	rentCollector solana.PublicKey,
	transactionIndex uint64,
) *VaultTransactionAccountsClose {
	return NewVaultTransactionAccountsCloseInstructionBuilder().
		SetMultisig(multisig).
		SetRentCollector(rentCollector).
		SetTransactionIndex(transactionIndex)
}
