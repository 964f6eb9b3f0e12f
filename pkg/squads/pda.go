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
	"encoding/binary"

	solana "github.com/gagliardetto/solana-go"
)

const (
	seedPrefix          = "multisig"
	seedProgramConfig   = "program_config"
	seedMultisig        = "multisig"
	seedVault           = "vault"
	seedTransaction     = "transaction"
	seedProposal        = "proposal"
	seedEphemeralSigner = "ephemeral_signer"
)

func transactionIndexSeed(index uint64) []byte {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, index)
	return seed
}

// FindProgramConfigPDA derives the singleton program config account.
func FindProgramConfigPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		[]byte(seedProgramConfig),
	}, ProgramID)
}

// FindMultisigPDA derives the multisig settings account for a create key.
func FindMultisigPDA(createKey solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		[]byte(seedMultisig),
		createKey.Bytes(),
	}, ProgramID)
}

// FindVaultPDA derives a vault authority of the multisig. Index 0 is the
// default vault.
func FindVaultPDA(multisig solana.PublicKey, index uint8) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		multisig.Bytes(),
		[]byte(seedVault),
		{index},
	}, ProgramID)
}

// FindTransactionPDA derives the vault transaction account for a 1-based
// transaction index.
func FindTransactionPDA(multisig solana.PublicKey, index uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		multisig.Bytes(),
		[]byte(seedTransaction),
		transactionIndexSeed(index),
	}, ProgramID)
}

// FindProposalPDA derives the proposal account attached to a transaction
// index.
func FindProposalPDA(multisig solana.PublicKey, index uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		multisig.Bytes(),
		[]byte(seedTransaction),
		transactionIndexSeed(index),
		[]byte(seedProposal),
	}, ProgramID)
}

// FindEphemeralSignerPDA derives the ephemeral signer at index for a vault
// transaction account.
func FindEphemeralSignerPDA(transaction solana.PublicKey, index uint8) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(seedPrefix),
		transaction.Bytes(),
		[]byte(seedEphemeralSigner),
		{index},
	}, ProgramID)
}
