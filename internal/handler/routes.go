package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/ricardocr987/squads-scripting/internal/handler/status"
	"github.com/ricardocr987/squads-scripting/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/status",
				Handler: status.GetStatus(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/multisig",
				Handler: status.GetMultisig(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/proposals",
				Handler: status.GetProposals(serverCtx),
			},
		},
	)
}
