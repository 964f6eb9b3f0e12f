package status

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/svc"
	"github.com/ricardocr987/squads-scripting/internal/types"
)

type GetStatus struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetStatus(ctx context.Context, svcCtx *svc.ServiceContext) *GetStatus {
	return &GetStatus{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// GetStatus answers best effort: an unreachable node degrades the fields
// instead of failing the request.
func (l *GetStatus) GetStatus(req *types.StatusRequest) (resp *types.StatusResponse, err error) {
	resp = &types.StatusResponse{
		Wallet: l.svcCtx.Wallet.PublicKey().String(),
	}

	health, err := l.svcCtx.Client.GetHealth(l.ctx)
	if err != nil {
		l.Errorf("[status]: health check failed: %v", err)
		resp.Health = "unreachable"
		return resp, nil
	}
	resp.Health = health

	if slot, err := l.svcCtx.Client.GetSlot(l.ctx); err != nil {
		l.Errorf("[status]: slot lookup failed: %v", err)
	} else {
		resp.Slot = slot
	}
	if version, err := l.svcCtx.Client.GetVersion(l.ctx); err != nil {
		l.Errorf("[status]: version lookup failed: %v", err)
	} else {
		resp.NodeVersion = version
	}
	if balance, err := l.svcCtx.Client.GetBalance(l.ctx, l.svcCtx.Wallet.PublicKey()); err != nil {
		l.Errorf("[status]: balance lookup failed: %v", err)
	} else {
		resp.WalletBalance = balance
	}
	return resp, nil
}
