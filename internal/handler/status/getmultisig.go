package status

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ricardocr987/squads-scripting/internal/logic/status"
	"github.com/ricardocr987/squads-scripting/internal/svc"
	"github.com/ricardocr987/squads-scripting/internal/types"
)

func GetMultisig(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.MultisigRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := status.NewGetMultisig(r.Context(), svcCtx)
		resp, err := l.GetMultisig(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
