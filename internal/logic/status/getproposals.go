package status

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/multisig"
	"github.com/ricardocr987/squads-scripting/internal/svc"
	"github.com/ricardocr987/squads-scripting/internal/types"
)

// recentProposalWindow caps how many proposals the listing walks back over.
const recentProposalWindow = 10

type GetProposals struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetProposals(ctx context.Context, svcCtx *svc.ServiceContext) *GetProposals {
	return &GetProposals{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// GetProposals lists the recent proposals, or the single one named by index.
func (l *GetProposals) GetProposals(req *types.ProposalsRequest) (resp *types.ProposalsResponse, err error) {
	if req.Index > 0 {
		view, err := l.svcCtx.Service.ProposalStatus(l.ctx, req.Index)
		if err != nil {
			return nil, err
		}
		return &types.ProposalsResponse{Proposals: []types.Proposal{renderProposal(view)}}, nil
	}

	views, err := l.svcCtx.Service.Proposals(l.ctx, recentProposalWindow)
	if err != nil {
		return nil, err
	}
	proposals := make([]types.Proposal, 0, len(views))
	for i := range views {
		proposals = append(proposals, renderProposal(&views[i]))
	}
	return &types.ProposalsResponse{Proposals: proposals}, nil
}

func renderProposal(view *multisig.ProposalView) types.Proposal {
	return types.Proposal{
		TransactionIndex: view.TransactionIndex,
		Proposal:         view.Proposal.String(),
		Transaction:      view.Transaction.String(),
		Status:           view.State.Status.Kind.String(),
		StatusTime:       view.State.Status.Timestamp,
		ApprovedBy:       renderKeys(view.State.Approved),
		RejectedBy:       renderKeys(view.State.Rejected),
		CancelledBy:      renderKeys(view.State.Cancelled),
		Threshold:        view.Threshold,
	}
}

func renderKeys(keys []solana.PublicKey) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key.String())
	}
	return out
}
