package svc

import (
	"github.com/benbjohnson/clock"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/client"
	"github.com/ricardocr987/squads-scripting/internal/compute"
	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/multisig"
	"github.com/ricardocr987/squads-scripting/internal/pipeline"
	"github.com/ricardocr987/squads-scripting/internal/wallet"
)

type ServiceContext struct {
	Config   config.Config
	Client   *client.Client
	Store    *config.Store
	Wallet   *wallet.Wallet
	Pipeline *pipeline.Pipeline
	Service  *multisig.Service
}

func NewServiceContext(c config.Config) *ServiceContext {
	w, err := wallet.Load(c.Squads.KeygenPath)
	logx.Must(err)

	store, err := config.NewStore(c.Squads.StatePath)
	logx.Must(err)

	rpcClient := client.New(c.Rpc.Endpoint, c.Rpc.Commitment)
	estimator := compute.NewEstimator(rpcClient, feeSource(c.Rpc))
	pipe := pipeline.New(rpcClient, estimator, clock.New(), c.Rpc.Priority())

	return &ServiceContext{
		Config:   c,
		Client:   rpcClient,
		Store:    store,
		Wallet:   w,
		Pipeline: pipe,
		Service:  multisig.New(rpcClient, pipe, store, w, c.Squads),
	}
}

// feeSource picks the estimator's fee feed: a dedicated fee url wins,
// otherwise every configured fee endpoint pools samples, otherwise the main
// rpc endpoint serves alone.
func feeSource(c config.RpcConf) compute.FeeSource {
	if c.FeeUrl != "" {
		return client.NewFeeAPI(c.FeeUrl, c.TieredFees)
	}
	endpoints := c.FeeEndpoints
	if len(endpoints) == 0 {
		endpoints = []string{c.Endpoint}
	}
	sources := make([]compute.FeeSource, 0, len(endpoints))
	for _, endpoint := range endpoints {
		sources = append(sources, client.NewFeeAPI(endpoint, false))
	}
	return client.NewFanoutFees(sources...)
}
