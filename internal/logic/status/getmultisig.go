package status

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/svc"
	"github.com/ricardocr987/squads-scripting/internal/types"
)

type GetMultisig struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetMultisig(ctx context.Context, svcCtx *svc.ServiceContext) *GetMultisig {
	return &GetMultisig{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetMultisig) GetMultisig(req *types.MultisigRequest) (resp *types.MultisigResponse, err error) {
	info, err := l.svcCtx.Service.Info(l.ctx)
	if err != nil {
		return nil, err
	}

	members := make([]types.Member, 0, len(info.Multisig.Members))
	for _, m := range info.Multisig.Members {
		members = append(members, types.Member{
			Key:         m.Key.String(),
			Permissions: m.Permissions.String(),
		})
	}

	resp = &types.MultisigResponse{
		Multisig:              info.Record.Multisig.String(),
		Vault:                 info.Record.Vault.String(),
		CreateKey:             info.Record.CreateKey.String(),
		Threshold:             info.Multisig.Threshold,
		TimeLock:              info.Multisig.TimeLock,
		TransactionIndex:      info.Multisig.TransactionIndex,
		StaleTransactionIndex: info.Multisig.StaleTransactionIndex,
		Members:               members,
		WalletBalance:         info.WalletBalance,
		VaultBalance:          info.VaultBalance,
	}
	if info.Multisig.RentCollector != nil {
		resp.RentCollector = info.Multisig.RentCollector.String()
	}
	return resp, nil
}
