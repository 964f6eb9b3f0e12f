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

// MultisigCreateV2 creates a new multisig, paying the protocol creation fee
// to the treasury.
type MultisigCreateV2 struct {
	ConfigAuthority *solana.PublicKey
	Threshold       uint16
	Members         []Member
	TimeLock        uint32
	RentCollector   *solana.PublicKey
	Memo            *string

	CreateKey solana.PublicKey `bin:"-" borsh_skip:"true"`
	Creator   solana.PublicKey `bin:"-" borsh_skip:"true"`
	Treasury  solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [] ProgramConfig
	// ··········· Global config holding the creation fee and treasury
	//
	// [1] = [WRITE] Treasury
	// ··········· Receives the multisig creation fee
	//
	// [2] = [WRITE] Multisig
	// ··········· Settings account to be created
	//
	// [3] = [SIGNER] CreateKey
	// ··········· One-time key the multisig address is derived from
	//
	// [4] = [WRITE, SIGNER] Creator
	// ··········· Pays rent and the creation fee
	//
	// [5] = [] SystemProgram
	// ··········· System program ID
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewMultisigCreateV2InstructionBuilder creates a new `MultisigCreateV2` instruction builder.
func NewMultisigCreateV2InstructionBuilder() *MultisigCreateV2 {
	nd := &MultisigCreateV2{}
	return nd
}

func (inst *MultisigCreateV2) SetConfigAuthority(authority solana.PublicKey) *MultisigCreateV2 {
	inst.ConfigAuthority = &authority
	return inst
}

func (inst *MultisigCreateV2) SetThreshold(threshold uint16) *MultisigCreateV2 {
	inst.Threshold = threshold
	return inst
}

func (inst *MultisigCreateV2) SetMembers(members []Member) *MultisigCreateV2 {
	inst.Members = members
	return inst
}

func (inst *MultisigCreateV2) SetTimeLock(timeLock uint32) *MultisigCreateV2 {
	inst.TimeLock = timeLock
	return inst
}

func (inst *MultisigCreateV2) SetRentCollector(collector solana.PublicKey) *MultisigCreateV2 {
	inst.RentCollector = &collector
	return inst
}

func (inst *MultisigCreateV2) SetMemo(memo string) *MultisigCreateV2 {
	inst.Memo = &memo
	return inst
}

func (inst *MultisigCreateV2) SetCreateKey(createKey solana.PublicKey) *MultisigCreateV2 {
	inst.CreateKey = createKey
	return inst
}

func (inst *MultisigCreateV2) SetCreator(creator solana.PublicKey) *MultisigCreateV2 {
	inst.Creator = creator
	return inst
}

func (inst *MultisigCreateV2) SetTreasury(treasury solana.PublicKey) *MultisigCreateV2 {
	inst.Treasury = treasury
	return inst
}

func (inst MultisigCreateV2) Build() *Instruction {

	programConfig, _, _ := FindProgramConfigPDA()
	multisig, _, _ := FindMultisigPDA(inst.CreateKey)

	keys := []*solana.AccountMeta{
		{
			PublicKey:  programConfig,
			IsSigner:   false,
			IsWritable: false,
		},
		{
			PublicKey:  inst.Treasury,
			IsSigner:   false,
			IsWritable: true,
		},
		{
			PublicKey:  multisig,
			IsSigner:   false,
			IsWritable: true,
		},
		{
			PublicKey:  inst.CreateKey,
			IsSigner:   true,
			IsWritable: false,
		},
		{
			PublicKey:  inst.Creator,
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
		TypeID: instructionMultisigCreateV2,
	}}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, return the error.
// Otherwise, build and return the instruction.
func (inst MultisigCreateV2) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *MultisigCreateV2) Validate() error {
	if inst.Threshold == 0 {
		return errors.New("Threshold not set")
	}
	if len(inst.Members) == 0 {
		return errors.New("Members not set")
	}
	if int(inst.Threshold) > len(inst.Members) {
		return fmt.Errorf("threshold %d exceeds member count %d", inst.Threshold, len(inst.Members))
	}
	if inst.CreateKey.IsZero() {
		return errors.New("CreateKey not set")
	}
	if inst.Creator.IsZero() {
		return errors.New("Creator not set")
	}
	if inst.Treasury.IsZero() {
		return errors.New("Treasury not set")
	}
	_, _, err := FindMultisigPDA(inst.CreateKey)
	if err != nil {
		return fmt.Errorf("error while FindMultisigPDA: %w", err)
	}
	return nil
}

func (inst *MultisigCreateV2) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, ProgramID)).
		//
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("MultisigCreateV2")).
				//
				ParentFunc(func(instructionBranch treeout.Branches) {

					// Parameters of the instruction:
					instructionBranch.Child("Params[len=6]").ParentFunc(func(paramsBranch treeout.Branches) {
						paramsBranch.Child(format.Param("ConfigAuthority", inst.ConfigAuthority))
						paramsBranch.Child(format.Param("      Threshold", inst.Threshold))
						paramsBranch.Child(format.Param("        Members", inst.Members))
						paramsBranch.Child(format.Param("       TimeLock", inst.TimeLock))
						paramsBranch.Child(format.Param("  RentCollector", inst.RentCollector))
						paramsBranch.Child(format.Param("           Memo", inst.Memo))
					})

					// Accounts of the instruction:
					instructionBranch.Child("Accounts[len=6]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta(" programConfig", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("      treasury", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta("      multisig", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta("     createKey", inst.AccountMetaSlice.Get(3)))
						accountsBranch.Child(format.Meta("       creator", inst.AccountMetaSlice.Get(4)))
						accountsBranch.Child(format.Meta(" systemProgram", inst.AccountMetaSlice.Get(5)))
					})
				})
		})
}

func (inst MultisigCreateV2) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := writeOptionalPublicKey(encoder, inst.ConfigAuthority); err != nil {
		return err
	}
	if err := encoder.WriteUint16(inst.Threshold, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint32(uint32(len(inst.Members)), bin.LE); err != nil {
		return err
	}
	for _, m := range inst.Members {
		if err := encoder.WriteBytes(m.Key.Bytes(), false); err != nil {
			return err
		}
		if err := encoder.WriteUint8(m.Permissions.Mask); err != nil {
			return err
		}
	}
	if err := encoder.WriteUint32(inst.TimeLock, bin.LE); err != nil {
		return err
	}
	if err := writeOptionalPublicKey(encoder, inst.RentCollector); err != nil {
		return err
	}
	return writeOptionalString(encoder, inst.Memo)
}

func (inst *MultisigCreateV2) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if inst.ConfigAuthority, err = readOptionalPublicKey(decoder); err != nil {
		return err
	}
	if inst.Threshold, err = decoder.ReadUint16(bin.LE); err != nil {
		return err
	}
	memberCount, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	inst.Members = make([]Member, 0, memberCount)
	for i := uint32(0); i < memberCount; i++ {
		var m Member
		if m.Key, err = readPublicKey(decoder); err != nil {
			return err
		}
		if m.Permissions.Mask, err = decoder.ReadUint8(); err != nil {
			return err
		}
		inst.Members = append(inst.Members, m)
	}
	if inst.TimeLock, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	if inst.RentCollector, err = readOptionalPublicKey(decoder); err != nil {
		return err
	}
	inst.Memo, err = readOptionalString(decoder)
	return err
}

// GetAccounts implements the AccountMetaGettable interface
func (inst MultisigCreateV2) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

// NewMultisigCreateV2Instruction creates a new multisig with the given
// member set and threshold, derived from createKey.
func NewMultisigCreateV2Instruction(
	createKey solana.PublicKey,
	creator solana.PublicKey,
	treasury solana.PublicKey,
	threshold uint16,
	members []Member,
	timeLock uint32,
) *MultisigCreateV2 {
	return NewMultisigCreateV2InstructionBuilder().
		SetCreateKey(createKey).
		SetCreator(creator).
		SetTreasury(treasury).
		SetThreshold(threshold).
		SetMembers(members).
		SetTimeLock(timeLock)
}
