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

package squadslegacy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decert-me/solana-go-sdk/common"
	"github.com/decert-me/solana-go-sdk/types"
	solana "github.com/gagliardetto/solana-go"

	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// ProgramID is the Squads v4 program in the legacy SDK key type.
var ProgramID = common.PublicKeyFromBytes(squads.ProgramID.Bytes())

var systemProgram = common.PublicKeyFromString("11111111111111111111111111111111")

// VaultTransactionCreateParam describes a vault transaction to be stored on
// chain. RentPayer falls back to Creator when unset.
type VaultTransactionCreateParam struct {
	Multisig         common.PublicKey
	Creator          common.PublicKey
	RentPayer        common.PublicKey
	TransactionIndex uint64
	VaultIndex       uint8
	EphemeralSigners uint8
	Message          *TransactionMessage
	Memo             *string
}

// VaultTransactionCreate builds the instruction that stores a compiled
// message at the given transaction index.
func VaultTransactionCreate(param VaultTransactionCreateParam) (types.Instruction, error) {
	if param.Message == nil {
		return types.Instruction{}, errors.New("message not set")
	}
	if param.TransactionIndex == 0 {
		return types.Instruction{}, errors.New("transaction index not set")
	}
	if param.Multisig == (common.PublicKey{}) {
		return types.Instruction{}, errors.New("multisig not set")
	}
	if param.Creator == (common.PublicKey{}) {
		return types.Instruction{}, errors.New("creator not set")
	}
	rentPayer := param.RentPayer
	if rentPayer == (common.PublicKey{}) {
		rentPayer = param.Creator
	}

	messageBytes, err := param.Message.Encode()
	if err != nil {
		return types.Instruction{}, err
	}
	transaction, err := transactionPDA(param.Multisig, param.TransactionIndex)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("deriving the transaction account: %w", err)
	}

	data := new(bytes.Buffer)
	data.Write(squads.InstructionDiscriminator("vault_transaction_create"))
	data.WriteByte(param.VaultIndex)
	data.WriteByte(param.EphemeralSigners)
	var msgLen [4]byte
	binary.LittleEndian.PutUint32(msgLen[:], uint32(len(messageBytes)))
	data.Write(msgLen[:])
	data.Write(messageBytes)
	if param.Memo != nil {
		data.WriteByte(1)
		var memoLen [4]byte
		binary.LittleEndian.PutUint32(memoLen[:], uint32(len(*param.Memo)))
		data.Write(memoLen[:])
		data.WriteString(*param.Memo)
	} else {
		data.WriteByte(0)
	}

	return types.Instruction{
		ProgramID: ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Multisig, IsSigner: false, IsWritable: true},
			{PubKey: transaction, IsSigner: false, IsWritable: true},
			{PubKey: param.Creator, IsSigner: true, IsWritable: false},
			{PubKey: rentPayer, IsSigner: true, IsWritable: true},
			{PubKey: systemProgram, IsSigner: false, IsWritable: false},
		},
		Data: data.Bytes(),
	}, nil
}

func transactionPDA(multisig common.PublicKey, index uint64) (common.PublicKey, error) {
	pda, _, err := squads.FindTransactionPDA(solana.PublicKeyFromBytes(multisig.Bytes()), index)
	if err != nil {
		return common.PublicKey{}, err
	}
	return common.PublicKeyFromBytes(pda.Bytes()), nil
}
