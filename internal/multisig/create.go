package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// CreateResult reports the freshly created multisig.
type CreateResult struct {
	Record    config.MultisigRecord
	Threshold uint16
	Members   int
	Signature solana.Signature
}

// Create deploys a new multisig from the members file and records it in the
// store. The create key is a throwaway keypair that signs once and is then
// discarded; the multisig address derives from it, so every run of Create
// yields a fresh squad.
func (s *Service) Create(ctx context.Context, memo string) (*CreateResult, error) {
	if rec, ok := s.store.Multisig(); ok {
		return nil, errors.Errorf("multisig %s already recorded in %s, delete the state file to start over", rec.Multisig, s.store.Path())
	}

	membersFile, err := config.LoadMembers(s.cfg.MembersPath)
	if err != nil {
		return nil, err
	}
	members, err := membersFile.SquadsMembers()
	if err != nil {
		return nil, err
	}

	creator := s.wallet.PublicKey()
	if !hasMember(members, creator) {
		logx.Infof("[multisig]: wallet %s is not in the member set, it can pay fees but not vote", creator)
	}

	programConfigPDA, _, err := squads.FindProgramConfigPDA()
	if err != nil {
		return nil, err
	}
	data, err := s.chain.GetAccountData(ctx, programConfigPDA)
	if err != nil {
		return nil, errors.Wrap(err, "fetching program config")
	}
	programConfig, err := squads.DecodeProgramConfig(data)
	if err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: creation fee %d lamports to treasury %s", programConfig.MultisigCreationFee, programConfig.Treasury)

	createKey := solana.NewWallet()
	builder := squads.NewMultisigCreateV2Instruction(
		createKey.PublicKey(),
		creator,
		programConfig.Treasury,
		membersFile.Threshold,
		members,
		membersFile.TimeLock,
	)
	if s.cfg.RentCollector != "" {
		collector, err := solana.PublicKeyFromBase58(s.cfg.RentCollector)
		if err != nil {
			return nil, errors.Wrap(err, "parsing rent collector")
		}
		builder.SetRentCollector(collector)
	}
	if memo != "" {
		builder.SetMemo(memo)
	}
	ix, err := builder.ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: creating\n%s", describe(ix))

	multisigPDA, _, err := squads.FindMultisigPDA(createKey.PublicKey())
	if err != nil {
		return nil, err
	}
	vaultPDA, _, err := squads.FindVaultPDA(multisigPDA, s.cfg.VaultIndex)
	if err != nil {
		return nil, err
	}

	sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{ix}, []solana.PrivateKey{s.wallet.PrivateKey, createKey.PrivateKey})
	if err != nil {
		return nil, err
	}

	rec := config.MultisigRecord{
		CreateKey: createKey.PublicKey(),
		Multisig:  multisigPDA,
		Vault:     vaultPDA,
		Members:   membersFile.Members,
	}
	if err := s.store.SetMultisig(rec); err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: created %s with %d members, threshold %d, vault %s",
		multisigPDA, len(members), membersFile.Threshold, vaultPDA)

	return &CreateResult{
		Record:    rec,
		Threshold: membersFile.Threshold,
		Members:   len(members),
		Signature: sig,
	}, nil
}

func hasMember(members []squads.Member, key solana.PublicKey) bool {
	for _, m := range members {
		if m.Key.Equals(key) {
			return true
		}
	}
	return false
}
