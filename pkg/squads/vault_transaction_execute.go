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

// VaultTransactionExecute executes an approved vault transaction. The
// accounts referenced by the stored message are appended after the four
// fixed accounts so the program can replay the message via CPI.
type VaultTransactionExecute struct {
	TransactionIndex uint64                `bin:"-" borsh_skip:"true"`
	Multisig         solana.PublicKey      `bin:"-" borsh_skip:"true"`
	Member           solana.PublicKey      `bin:"-" borsh_skip:"true"`
	MessageAccounts  []*solana.AccountMeta `bin:"-" borsh_skip:"true"`

	// [0] = [] Multisig
	// ··········· Settings account the transaction belongs to
	//
	// [1] = [WRITE] Proposal
	// ··········· Proposal account, moves to Executed
	//
	// [2] = [] Transaction
	// ··········· Vault transaction account holding the message
	//
	// [3] = [SIGNER] Member
	// ··········· Executing member, must hold the execute permission
	//
	// [4...] = message accounts in stored order
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// ExecuteAccounts derives the message account metas to append after the four
// fixed accounts. The vault and any ephemeral signers are PDAs, so their
// signer flags are cleared even where the stored message marks them signing.
func ExecuteAccounts(transaction *VaultTransaction, transactionPDA solana.PublicKey) ([]*solana.AccountMeta, error) {
	if len(transaction.Message.AddressTableLookups) > 0 {
		return nil, errors.New("address table lookups are not supported")
	}
	vault, _, err := FindVaultPDA(transaction.Multisig, transaction.VaultIndex)
	if err != nil {
		return nil, err
	}
	ephemeral := make([]solana.PublicKey, 0, len(transaction.EphemeralSignerBumps))
	for i := range transaction.EphemeralSignerBumps {
		pda, _, err := FindEphemeralSignerPDA(transactionPDA, uint8(i))
		if err != nil {
			return nil, err
		}
		ephemeral = append(ephemeral, pda)
	}
	msg := &transaction.Message
	metas := make([]*solana.AccountMeta, 0, len(msg.AccountKeys))
	for i, key := range msg.AccountKeys {
		signer := msg.IsSignerIndex(i) && !key.Equals(vault) && !containsKey(ephemeral, key)
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   signer,
			IsWritable: msg.IsStaticWritable(i),
		})
	}
	return metas, nil
}

// NewVaultTransactionExecuteInstructionBuilder creates a new `VaultTransactionExecute` instruction builder.
func NewVaultTransactionExecuteInstructionBuilder() *VaultTransactionExecute {
	nd := &VaultTransactionExecute{}
	return nd
}

func (inst *VaultTransactionExecute) SetTransactionIndex(index uint64) *VaultTransactionExecute {
	inst.TransactionIndex = index
	return inst
}

func (inst *VaultTransactionExecute) SetMultisig(multisig solana.PublicKey) *VaultTransactionExecute {
	inst.Multisig = multisig
	return inst
}

func (inst *VaultTransactionExecute) SetMember(member solana.PublicKey) *VaultTransactionExecute {
	inst.Member = member
	return inst
}

func (inst *VaultTransactionExecute) SetMessageAccounts(accounts []*solana.AccountMeta) *VaultTransactionExecute {
	inst.MessageAccounts = accounts
	return inst
}

func (inst VaultTransactionExecute) Build() *Instruction {

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
			IsWritable: false,
		},
		{
			PublicKey:  inst.Member,
			IsSigner:   true,
			IsWritable: false,
		},
	}
	keys = append(keys, inst.MessageAccounts...)

	inst.AccountMetaSlice = keys

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: instructionVaultTransactionExecute,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst VaultTransactionExecute) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *VaultTransactionExecute) Validate() error {
	if inst.TransactionIndex == 0 {
		return errors.New("TransactionIndex not set")
	}
	if inst.Multisig.IsZero() {
		return errors.New("Multisig not set")
	}
	if inst.Member.IsZero() {
		return errors.New("Member not set")
	}
	if len(inst.MessageAccounts) == 0 {
		return errors.New("MessageAccounts not set")
	}
	_, _, err := FindTransactionPDA(inst.Multisig, inst.TransactionIndex)
	if err != nil {
		return fmt.Errorf("error while FindTransactionPDA: %w", err)
	}
	return nil
}

func (inst *VaultTransactionExecute) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, ProgramID)).
		//
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("VaultTransactionExecute")).
				//
				ParentFunc(func(instructionBranch treeout.Branches) {

					// Parameters of the instruction:
					instructionBranch.Child("Params[len=0]").ParentFunc(func(paramsBranch treeout.Branches) {})

					// Accounts of the instruction:
					instructionBranch.Child(fmt.Sprintf("Accounts[len=%d]", len(inst.AccountMetaSlice))).ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta("    multisig", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("    proposal", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta(" transaction", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta("      member", inst.AccountMetaSlice.Get(3)))
						for i := 4; i < len(inst.AccountMetaSlice); i++ {
							accountsBranch.Child(format.Meta(fmt.Sprintf(" message[%d]", i-4), inst.AccountMetaSlice.Get(i)))
						}
					})
				})
		})
}

func (inst VaultTransactionExecute) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes([]byte{}, false)
}

func (inst *VaultTransactionExecute) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return nil
}

// GetAccounts implements the AccountMetaGettable interface
func (inst VaultTransactionExecute) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewVaultTransactionExecuteInstruction executes the approved transaction at
// transactionIndex, messageAccounts coming from ExecuteAccounts.
func NewVaultTransactionExecuteInstruction(
	multisig solana.PublicKey,
	member solana.PublicKey,
	transactionIndex uint64,
	messageAccounts []*solana.AccountMeta,
) *VaultTransactionExecute {
	return NewVaultTransactionExecuteInstructionBuilder().
		SetMultisig(multisig).
		SetMember(member).
		SetTransactionIndex(transactionIndex).
		SetMessageAccounts(messageAccounts)
}
