package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"

	"github.com/ricardocr987/squads-scripting/internal/compute"
)

var C Config

type Config struct {
	Rest   RestConf
	Log    LogConf
	Banner BannerConf
	Rpc    RpcConf
	Squads SquadsConf
}

type RestConf struct {
	rest.RestConf
}

type LogConf struct {
	logx.LogConf
}

type BannerConf struct {
	Text     string `json:",default=SQUADS"`
	Color    string `json:",default=green"`
	FontName string `json:",default=standard,options=big|larry3d|starwars|standard"`
}

type RpcConf struct {
	Endpoint      string   `json:",default=https://api.devnet.solana.com" validate:"required,url"`
	Commitment    string   `json:",default=confirmed" validate:"oneof=confirmed finalized processed"`
	FeeEndpoints  []string `json:",optional" validate:"omitempty,dive,url"`
	FeeUrl        string   `json:",optional" validate:"omitempty,url"`
	TieredFees    bool     `json:",optional"`
	PriorityLevel string   `json:",default=Medium" validate:"oneof=Min Low Medium High VeryHigh"`
}

// Priority returns the configured fee tier in the estimator's type.
func (c RpcConf) Priority() compute.PriorityLevel {
	return compute.ParsePriorityLevel(c.PriorityLevel)
}

type SquadsConf struct {
	KeygenPath    string  `json:",default=etc/id.json"`
	StatePath     string  `json:",default=etc/state.json"`
	MembersPath   string  `json:",default=etc/members.yaml"`
	VaultIndex    uint8   `json:",default=0"`
	AirdropSol    float64 `json:",default=2" validate:"gte=0,lte=5"`
	RentCollector string  `json:",optional"`
}

// Load reads and validates the config file, publishing it as config.C.
func Load(path string) (Config, error) {
	var c Config
	if err := conf.Load(path, &c); err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	if err := validator.New().Struct(&c); err != nil {
		return Config{}, errors.Wrap(err, "validating config")
	}
	C = c
	return c, nil
}

// MustLoad is Load or die, for command startup.
func MustLoad(path string) Config {
	c, err := Load(path)
	logx.Must(err)
	return c
}
