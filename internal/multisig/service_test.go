package multisig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/wallet"
	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

type fakeChain struct {
	accounts map[solana.PublicKey][]byte
	balances map[solana.PublicKey]uint64
	airdrops []uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		accounts: make(map[solana.PublicKey][]byte),
		balances: make(map[solana.PublicKey]uint64),
	}
}

func (f *fakeChain) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	if data, ok := f.accounts[account]; ok {
		return data, nil
	}
	return nil, rpc.ErrNotFound
}

func (f *fakeChain) GetBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	return f.balances[account], nil
}

func (f *fakeChain) RequestAirdrop(_ context.Context, _ solana.PublicKey, lamports uint64) (solana.Signature, error) {
	f.airdrops = append(f.airdrops, lamports)
	return solana.Signature{1}, nil
}

type fakeSender struct {
	batches   [][]solana.Instruction
	signers   [][]solana.PrivateKey
	confirmed []solana.Signature
}

func (f *fakeSender) SignAndSend(_ context.Context, instrs []solana.Instruction, signers []solana.PrivateKey) (solana.Signature, error) {
	f.batches = append(f.batches, instrs)
	f.signers = append(f.signers, signers)
	return solana.Signature{42}, nil
}

func (f *fakeSender) Confirm(_ context.Context, sig solana.Signature) error {
	f.confirmed = append(f.confirmed, sig)
	return nil
}

func newTestService(t *testing.T, chain *fakeChain, sender *fakeSender, cfg config.SquadsConf) (*Service, *config.Store, *wallet.Wallet) {
	t.Helper()
	store, err := config.NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	w := &wallet.Wallet{PrivateKey: solana.NewWallet().PrivateKey}
	return New(chain, sender, store, w, cfg), store, w
}

func writeMembersYAML(t *testing.T, member solana.PublicKey) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "members.yaml")
	content := fmt.Sprintf("threshold: 1\nmembers:\n  - key: %s\n    permissions: all\n", member)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing members file: %v", err)
	}
	return path
}

func le16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func le32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func le64(buf []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

func encodeMultisig(ms *squads.Multisig) []byte {
	buf := squads.AccountDiscriminator("Multisig")
	buf = append(buf, ms.CreateKey.Bytes()...)
	buf = append(buf, ms.ConfigAuthority.Bytes()...)
	buf = le16(buf, ms.Threshold)
	buf = le32(buf, ms.TimeLock)
	buf = le64(buf, ms.TransactionIndex)
	buf = le64(buf, ms.StaleTransactionIndex)
	if ms.RentCollector != nil {
		buf = append(buf, 1)
		buf = append(buf, ms.RentCollector.Bytes()...)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, ms.Bump)
	buf = le32(buf, uint32(len(ms.Members)))
	for _, m := range ms.Members {
		buf = append(buf, m.Key.Bytes()...)
		buf = append(buf, m.Permissions.Mask)
	}
	return buf
}

func encodeProgramConfig(authority solana.PublicKey, fee uint64, treasury solana.PublicKey) []byte {
	buf := squads.AccountDiscriminator("ProgramConfig")
	buf = append(buf, authority.Bytes()...)
	buf = le64(buf, fee)
	buf = append(buf, treasury.Bytes()...)
	return append(buf, make([]byte, 64)...)
}

// seedMultisig installs a multisig record plus decodable settings account so
// an operation can run against it.
func seedMultisig(t *testing.T, chain *fakeChain, store *config.Store, ms *squads.Multisig) config.MultisigRecord {
	t.Helper()
	createKey := solana.NewWallet().PublicKey()
	address, _, err := squads.FindMultisigPDA(createKey)
	if err != nil {
		t.Fatalf("FindMultisigPDA: %v", err)
	}
	vault, _, err := squads.FindVaultPDA(address, 0)
	if err != nil {
		t.Fatalf("FindVaultPDA: %v", err)
	}
	rec := config.MultisigRecord{CreateKey: createKey, Multisig: address, Vault: vault}
	if err := store.SetMultisig(rec); err != nil {
		t.Fatalf("SetMultisig: %v", err)
	}
	chain.accounts[address] = encodeMultisig(ms)
	return rec
}

func TestCreateRecordsMultisig(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{})
	svc.cfg.MembersPath = writeMembersYAML(t, w.PublicKey())

	programConfigPDA, _, err := squads.FindProgramConfigPDA()
	if err != nil {
		t.Fatalf("FindProgramConfigPDA: %v", err)
	}
	treasury := solana.NewWallet().PublicKey()
	chain.accounts[programConfigPDA] = encodeProgramConfig(solana.NewWallet().PublicKey(), 50_000_000, treasury)

	res, err := svc.Create(context.Background(), "genesis")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(sender.batches) != 1 || len(sender.batches[0]) != 1 {
		t.Fatalf("sent %d batches, want one batch of one instruction", len(sender.batches))
	}
	if got := sender.batches[0][0].ProgramID(); !got.Equals(squads.ProgramID) {
		t.Errorf("program = %s, want the multisig program", got)
	}
	if len(sender.signers[0]) != 2 {
		t.Fatalf("signed with %d keys, want wallet plus create key", len(sender.signers[0]))
	}

	rec, ok := store.Multisig()
	if !ok {
		t.Fatal("record not persisted")
	}
	wantAddress, _, err := squads.FindMultisigPDA(rec.CreateKey)
	if err != nil {
		t.Fatalf("FindMultisigPDA: %v", err)
	}
	if !rec.Multisig.Equals(wantAddress) {
		t.Errorf("multisig = %s, want %s", rec.Multisig, wantAddress)
	}
	if len(rec.Members) != 1 || rec.Members[0].Key != w.PublicKey().String() {
		t.Errorf("stored members = %+v, want the wallet key", rec.Members)
	}
	if res.Members != 1 || res.Threshold != 1 {
		t.Errorf("result = %d members threshold %d, want 1/1", res.Members, res.Threshold)
	}
}

func TestCreateRefusesSecondMultisig(t *testing.T) {
	chain := newFakeChain()
	svc, store, _ := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	seedMultisig(t, chain, store, &squads.Multisig{})

	if _, err := svc.Create(context.Background(), ""); err == nil {
		t.Fatal("expected an error when a multisig is already recorded")
	}
}

func TestProposeTransferCreatesAtomicPair(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{})

	rec := seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 4,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	recipient := solana.NewWallet().PublicKey()
	res, err := svc.ProposeTransfer(context.Background(), recipient, 1_000_000, "grocery run")
	if err != nil {
		t.Fatalf("ProposeTransfer: %v", err)
	}

	if res.TransactionIndex != 5 {
		t.Errorf("index = %d, want 5", res.TransactionIndex)
	}
	if len(sender.batches) != 1 || len(sender.batches[0]) != 2 {
		t.Fatalf("want one batch with vault transaction create and proposal create")
	}
	for i, ix := range sender.batches[0] {
		if !ix.ProgramID().Equals(squads.ProgramID) {
			t.Errorf("instruction %d program = %s, want the multisig program", i, ix.ProgramID())
		}
	}
	if got := store.LastTransactionIndex(); got != 5 {
		t.Errorf("stored index = %d, want 5", got)
	}
	wantTx, _, err := squads.FindTransactionPDA(rec.Multisig, 5)
	if err != nil {
		t.Fatalf("FindTransactionPDA: %v", err)
	}
	if !res.Transaction.Equals(wantTx) {
		t.Errorf("transaction pda = %s, want %s", res.Transaction, wantTx)
	}
}

func TestProposeTransferNeedsProposePermission(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 1,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionVote}},
		},
	})

	_, err := svc.ProposeTransfer(context.Background(), solana.NewWallet().PublicKey(), 1, "")
	if err == nil || !strings.Contains(err.Error(), "propose") {
		t.Fatalf("err = %v, want a propose permission failure", err)
	}
}

func TestApproveResolvesLatestIndex(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{})
	rec := seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 9,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionVote}},
		},
	})
	if err := store.SetLastTransactionIndex(9); err != nil {
		t.Fatalf("SetLastTransactionIndex: %v", err)
	}

	res, err := svc.Approve(context.Background(), 0, "lgtm")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if res.TransactionIndex != 9 {
		t.Errorf("index = %d, want 9", res.TransactionIndex)
	}
	wantProposal, _, err := squads.FindProposalPDA(rec.Multisig, 9)
	if err != nil {
		t.Fatalf("FindProposalPDA: %v", err)
	}
	if !res.Proposal.Equals(wantProposal) {
		t.Errorf("proposal pda = %s, want %s", res.Proposal, wantProposal)
	}
	if len(sender.batches) != 1 || len(sender.batches[0]) != 1 {
		t.Fatal("want exactly one vote instruction sent")
	}
}

func TestVoteRefusesStaleProposal(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex:      6,
		StaleTransactionIndex: 5,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionVote}},
		},
	})

	_, err := svc.Reject(context.Background(), 3, "")
	if err == nil || !strings.Contains(err.Error(), "stale") {
		t.Fatalf("err = %v, want a staleness failure", err)
	}
}

func TestVoteNeedsMembership(t *testing.T) {
	chain := newFakeChain()
	svc, store, _ := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 1,
		Members: []squads.Member{
			{Key: solana.NewWallet().PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	_, err := svc.Approve(context.Background(), 1, "")
	if err == nil || !strings.Contains(err.Error(), "not a member") {
		t.Fatalf("err = %v, want a membership failure", err)
	}
}

func TestExecuteBuildsFromStoredMessage(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{})
	rec := seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 5,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	recipient := solana.NewWallet().PublicKey()
	transactionPDA, _, err := squads.FindTransactionPDA(rec.Multisig, 5)
	if err != nil {
		t.Fatalf("FindTransactionPDA: %v", err)
	}

	// Stored vault transaction: vault pays a transfer to recipient through
	// the system program.
	buf := squads.AccountDiscriminator("VaultTransaction")
	buf = append(buf, rec.Multisig.Bytes()...)
	buf = append(buf, w.PublicKey().Bytes()...)
	buf = le64(buf, 5)
	buf = append(buf, 255, 0, 254) // bump, vault index, vault bump
	buf = le32(buf, 0)             // no ephemeral signers
	buf = append(buf, 1, 1, 1)     // one signer, writable; one writable non-signer
	buf = append(buf, 3)
	buf = append(buf, rec.Vault.Bytes()...)
	buf = append(buf, recipient.Bytes()...)
	buf = append(buf, solana.SystemProgramID.Bytes()...)
	buf = append(buf, 1)       // one inner instruction
	buf = append(buf, 2)       // program index
	buf = append(buf, 2, 0, 1) // accounts: vault, recipient
	buf = le16(buf, 12)
	buf = append(buf, make([]byte, 12)...)
	buf = append(buf, 0) // no lookups
	chain.accounts[transactionPDA] = buf

	res, err := svc.Execute(context.Background(), 5)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Transaction.Equals(transactionPDA) {
		t.Errorf("transaction pda = %s, want %s", res.Transaction, transactionPDA)
	}

	accounts := sender.batches[0][0].Accounts()
	if len(accounts) != 7 {
		t.Fatalf("got %d accounts, want 4 fixed plus 3 from the message", len(accounts))
	}
	vaultMeta := accounts[4]
	if !vaultMeta.PublicKey.Equals(rec.Vault) {
		t.Errorf("first message account = %s, want the vault", vaultMeta.PublicKey)
	}
	if vaultMeta.IsSigner {
		t.Error("vault must not be marked as signer, the program signs for it")
	}
	if !vaultMeta.IsWritable {
		t.Error("vault lost its writable flag")
	}
	if accounts[6].IsWritable || accounts[6].IsSigner {
		t.Error("system program should ride along read-only")
	}
}

func TestCloseNeedsRentCollector(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 2,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	_, err := svc.Close(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "rent collector") {
		t.Fatalf("err = %v, want a rent collector failure", err)
	}
}

func TestCloseSendsToRentCollector(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{})
	collector := solana.NewWallet().PublicKey()
	seedMultisig(t, chain, store, &squads.Multisig{
		TransactionIndex: 2,
		RentCollector:    &collector,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	res, err := svc.Close(context.Background(), 2)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !res.RentCollector.Equals(collector) {
		t.Errorf("rent collector = %s, want %s", res.RentCollector, collector)
	}
	if len(sender.batches) != 1 {
		t.Fatal("want one close instruction sent")
	}
}

func TestFundMovesLamportsIntoVault(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, w := newTestService(t, chain, sender, config.SquadsConf{AirdropSol: 0})
	rec := seedMultisig(t, chain, store, &squads.Multisig{})
	chain.balances[w.PublicKey()] = 3_000_000_000
	chain.balances[rec.Vault] = 500_000_000

	res, err := svc.Fund(context.Background(), 500_000_000)
	if err != nil {
		t.Fatalf("Fund: %v", err)
	}
	if len(chain.airdrops) != 0 {
		t.Error("airdrop requested despite AirdropSol being zero")
	}
	if len(sender.batches) != 1 || len(sender.batches[0]) != 1 {
		t.Fatal("want a single transfer instruction")
	}
	if got := sender.batches[0][0].ProgramID(); !got.Equals(solana.SystemProgramID) {
		t.Errorf("program = %s, want the system program", got)
	}
	if res.VaultBalance != 500_000_000 {
		t.Errorf("vault balance = %d", res.VaultBalance)
	}
}

func TestFundAirdropsAndConfirms(t *testing.T) {
	chain := newFakeChain()
	sender := &fakeSender{}
	svc, store, _ := newTestService(t, chain, sender, config.SquadsConf{AirdropSol: 1.5})
	seedMultisig(t, chain, store, &squads.Multisig{})

	if _, err := svc.Fund(context.Background(), 0); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	if len(chain.airdrops) != 1 || chain.airdrops[0] != 1_500_000_000 {
		t.Fatalf("airdrops = %v, want one request of 1.5 SOL", chain.airdrops)
	}
	if len(sender.confirmed) != 1 {
		t.Error("airdrop signature was not confirmed")
	}
	if len(sender.batches) != 0 {
		t.Error("no transfer should go out when lamports is zero")
	}
}

func TestInfoAggregatesState(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	rec := seedMultisig(t, chain, store, &squads.Multisig{
		Threshold:        2,
		TransactionIndex: 7,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
			{Key: solana.NewWallet().PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionVote}},
		},
	})
	chain.balances[w.PublicKey()] = 2_000_000_000
	chain.balances[rec.Vault] = 1_000_000_000

	info, err := svc.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Multisig.Threshold != 2 || len(info.Multisig.Members) != 2 {
		t.Errorf("decoded multisig = threshold %d members %d", info.Multisig.Threshold, len(info.Multisig.Members))
	}
	if !info.Wallet.Equals(w.PublicKey()) {
		t.Errorf("wallet = %s, want %s", info.Wallet, w.PublicKey())
	}
	if info.WalletBalance != 2_000_000_000 || info.VaultBalance != 1_000_000_000 {
		t.Errorf("balances = %d/%d", info.WalletBalance, info.VaultBalance)
	}

	tree := RenderTree(info, []ProposalView{{
		TransactionIndex: 7,
		Threshold:        2,
		State:            &squads.Proposal{Status: squads.ProposalStatus{Kind: squads.ProposalStatusActive}},
	}})
	for _, want := range []string{
		rec.Multisig.String(),
		w.PublicKey().String(),
		"Proposal #7: Active",
		"Approvals: 0 of 2",
	} {
		if !strings.Contains(tree, want) {
			t.Errorf("tree missing %q:\n%s", want, tree)
		}
	}
}

func TestProposalStatusDecodesVotes(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	rec := seedMultisig(t, chain, store, &squads.Multisig{
		Threshold:        2,
		TransactionIndex: 3,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	proposalPDA, _, err := squads.FindProposalPDA(rec.Multisig, 3)
	if err != nil {
		t.Fatalf("FindProposalPDA: %v", err)
	}
	buf := squads.AccountDiscriminator("Proposal")
	buf = append(buf, rec.Multisig.Bytes()...)
	buf = le64(buf, 3)
	buf = append(buf, uint8(squads.ProposalStatusActive))
	buf = le64(buf, 1_700_000_000) // status timestamp
	buf = append(buf, 251)         // bump
	buf = le32(buf, 1)             // one approval
	buf = append(buf, w.PublicKey().Bytes()...)
	buf = le32(buf, 0)
	buf = le32(buf, 0)
	chain.accounts[proposalPDA] = buf

	view, err := svc.ProposalStatus(context.Background(), 3)
	if err != nil {
		t.Fatalf("ProposalStatus: %v", err)
	}
	if view.State.Status.Kind != squads.ProposalStatusActive {
		t.Errorf("status = %s, want Active", view.State.Status.Kind)
	}
	if !view.State.HasApproved(w.PublicKey()) {
		t.Error("wallet approval missing from decoded proposal")
	}
	if view.Threshold != 2 {
		t.Errorf("threshold = %d, want 2", view.Threshold)
	}
}

func TestOperationsNeedARecordedMultisig(t *testing.T) {
	chain := newFakeChain()
	svc, _, _ := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})

	if _, err := svc.Info(context.Background()); err != ErrNoMultisig {
		t.Errorf("Info err = %v, want ErrNoMultisig", err)
	}
	if _, err := svc.Approve(context.Background(), 1, ""); err != ErrNoMultisig {
		t.Errorf("Approve err = %v, want ErrNoMultisig", err)
	}
	if _, err := svc.Fund(context.Background(), 1); err != ErrNoMultisig {
		t.Errorf("Fund err = %v, want ErrNoMultisig", err)
	}
}

func encodeProposal(multisig solana.PublicKey, index uint64, kind squads.ProposalStatusKind) []byte {
	buf := squads.AccountDiscriminator("Proposal")
	buf = append(buf, multisig.Bytes()...)
	buf = le64(buf, index)
	buf = append(buf, uint8(kind))
	buf = le64(buf, 1_700_000_000)
	buf = append(buf, 251)
	buf = le32(buf, 0)
	buf = le32(buf, 0)
	buf = le32(buf, 0)
	return buf
}

func TestProposalsListsRecentSkippingClosed(t *testing.T) {
	chain := newFakeChain()
	svc, store, w := newTestService(t, chain, &fakeSender{}, config.SquadsConf{})
	rec := seedMultisig(t, chain, store, &squads.Multisig{
		Threshold:        1,
		TransactionIndex: 3,
		Members: []squads.Member{
			{Key: w.PublicKey(), Permissions: squads.Permissions{Mask: squads.PermissionFull}},
		},
	})

	// 1 and 3 exist, 2 was closed and its account is gone.
	for _, index := range []uint64{1, 3} {
		pda, _, err := squads.FindProposalPDA(rec.Multisig, index)
		if err != nil {
			t.Fatalf("FindProposalPDA: %v", err)
		}
		chain.accounts[pda] = encodeProposal(rec.Multisig, index, squads.ProposalStatusActive)
	}

	views, err := svc.Proposals(context.Background(), 10)
	if err != nil {
		t.Fatalf("Proposals: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d proposals, want 2", len(views))
	}
	if views[0].TransactionIndex != 1 || views[1].TransactionIndex != 3 {
		t.Errorf("indexes = [%d %d], want [1 3]", views[0].TransactionIndex, views[1].TransactionIndex)
	}
}
