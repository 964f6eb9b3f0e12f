package squadslegacy

import (
	"bytes"
	"testing"

	"github.com/decert-me/solana-go-sdk/common"
	"github.com/decert-me/solana-go-sdk/program/system"
	"github.com/decert-me/solana-go-sdk/types"
	bin "github.com/gagliardetto/binary"

	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

func legacyKey(b byte) common.PublicKey {
	return common.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func TestCompileMessagePlacesVaultFirst(t *testing.T) {
	vault := legacyKey(1)
	recipient := legacyKey(2)
	transfer := system.Transfer(system.TransferParam{
		From:   vault,
		To:     recipient,
		Amount: 1_000_000,
	})

	msg, err := CompileMessage(vault, []types.Instruction{transfer})
	if err != nil {
		t.Fatal(err)
	}
	if msg.NumSigners != 1 || msg.NumWritableSigners != 1 || msg.NumWritableNonSigners != 1 {
		t.Fatalf("header = %d/%d/%d", msg.NumSigners, msg.NumWritableSigners, msg.NumWritableNonSigners)
	}
	if len(msg.AccountKeys) != 3 {
		t.Fatalf("account keys = %d, want 3", len(msg.AccountKeys))
	}
	if msg.AccountKeys[0] != vault {
		t.Errorf("key 0 = %s, want the vault", msg.AccountKeys[0].ToBase58())
	}
	if msg.AccountKeys[1] != recipient {
		t.Errorf("key 1 = %s, want the recipient", msg.AccountKeys[1].ToBase58())
	}
	if msg.AccountKeys[2] != transfer.ProgramID {
		t.Errorf("key 2 = %s, want the system program", msg.AccountKeys[2].ToBase58())
	}
	if len(msg.Instructions) != 1 {
		t.Fatalf("instructions = %d, want 1", len(msg.Instructions))
	}
	ix := msg.Instructions[0]
	if ix.ProgramIDIndex != 2 {
		t.Errorf("program id index = %d, want 2", ix.ProgramIDIndex)
	}
	if !bytes.Equal(ix.AccountIndexes, []byte{0, 1}) {
		t.Errorf("account indexes = %v, want [0 1]", ix.AccountIndexes)
	}
	if !bytes.Equal(ix.Data, transfer.Data) {
		t.Error("instruction data was not carried through")
	}
}

func TestCompileMessageMergesDuplicateRoles(t *testing.T) {
	vault := legacyKey(1)
	shared := legacyKey(2)
	program := legacyKey(9)
	first := types.Instruction{
		ProgramID: program,
		Accounts: []types.AccountMeta{
			{PubKey: shared, IsSigner: false, IsWritable: false},
		},
	}
	second := types.Instruction{
		ProgramID: program,
		Accounts: []types.AccountMeta{
			{PubKey: shared, IsSigner: false, IsWritable: true},
		},
	}

	msg, err := CompileMessage(vault, []types.Instruction{first, second})
	if err != nil {
		t.Fatal(err)
	}
	// vault, shared (upgraded to writable), program
	if len(msg.AccountKeys) != 3 {
		t.Fatalf("account keys = %d, want 3", len(msg.AccountKeys))
	}
	if msg.AccountKeys[1] != shared {
		t.Errorf("key 1 = %s, want the shared account", msg.AccountKeys[1].ToBase58())
	}
	if msg.NumWritableNonSigners != 1 {
		t.Errorf("writable non-signers = %d, want 1", msg.NumWritableNonSigners)
	}
	if msg.Instructions[0].AccountIndexes[0] != msg.Instructions[1].AccountIndexes[0] {
		t.Error("the same key compiled to different indexes")
	}
}

func TestCompileMessageRejectsEmpty(t *testing.T) {
	if _, err := CompileMessage(legacyKey(1), nil); err == nil {
		t.Fatal("expected an error for an empty instruction list")
	}
}

func TestEncodeRoundTripsThroughProgramDecoder(t *testing.T) {
	vault := legacyKey(1)
	transfer := system.Transfer(system.TransferParam{
		From:   vault,
		To:     legacyKey(2),
		Amount: 42,
	})
	msg, err := CompileMessage(vault, []types.Instruction{transfer})
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := msg.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var decoded squads.VaultTransactionMessage
	if err := decoded.UnmarshalWithDecoder(bin.NewBorshDecoder(encoded)); err != nil {
		t.Fatal(err)
	}
	if decoded.NumSigners != msg.NumSigners ||
		decoded.NumWritableSigners != msg.NumWritableSigners ||
		decoded.NumWritableNonSigners != msg.NumWritableNonSigners {
		t.Fatalf("header = %d/%d/%d", decoded.NumSigners, decoded.NumWritableSigners, decoded.NumWritableNonSigners)
	}
	if len(decoded.AccountKeys) != len(msg.AccountKeys) {
		t.Fatalf("account keys = %d, want %d", len(decoded.AccountKeys), len(msg.AccountKeys))
	}
	for i, key := range msg.AccountKeys {
		if !bytes.Equal(decoded.AccountKeys[i].Bytes(), key.Bytes()) {
			t.Errorf("key %d differs after the round trip", i)
		}
	}
	if len(decoded.Instructions) != 1 {
		t.Fatalf("instructions = %d, want 1", len(decoded.Instructions))
	}
	if decoded.Instructions[0].ProgramIDIndex != msg.Instructions[0].ProgramIDIndex {
		t.Error("program id index differs after the round trip")
	}
	if !bytes.Equal(decoded.Instructions[0].Data, transfer.Data) {
		t.Error("instruction data differs after the round trip")
	}
	if len(decoded.AddressTableLookups) != 0 {
		t.Errorf("lookups = %d, want 0", len(decoded.AddressTableLookups))
	}
}
