// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"net/http"

	log "github.com/ChainSafe/log15"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// AuthorModule is an RPC module for submitting deploy actions
type AuthorModule struct {
	logger  log.Logger
	coreAPI CoreAPI
}

// NewAuthorModule creates a new author module instance
func NewAuthorModule(logger log.Logger, core CoreAPI) *AuthorModule {
	return &AuthorModule{
		logger:  logger.New("module", "author"),
		coreAPI: core,
	}
}

// DeployRequest holds a deploy action
type DeployRequest struct {
	Account string `validate:"required"`
	Code    string `validate:"required"`
	Shared  bool
	Shard   uint32
}

// DeployResponse holds the content hash of the deployed code
type DeployResponse struct {
	Hash string `json:"hash"`
}

// DeployCode applies a deploy action to the given account's code slot
func (am *AuthorModule) DeployCode(r *http.Request, req *DeployRequest, res *DeployResponse) error {
	code, err := common.HexToBytes(req.Code)
	if err != nil {
		return err
	}

	hash, err := am.coreAPI.HandleDeploy(&types.Deploy{
		Account: types.AccountID(req.Account),
		Code:    code,
		Shared:  req.Shared,
		Shard:   req.Shard,
	})
	if err != nil {
		am.logger.Debug("failed to handle deploy", "account", req.Account, "err", err)
		return err
	}

	res.Hash = hash.String()
	return nil
}

// ResolveResponse holds resolved code bytes
type ResolveResponse struct {
	Code string `json:"code"`
	Hash string `json:"hash"`
}

// ResolveCode resolves the account's executable code the way a contract
// invocation does: shared code is renewed, and a soft-locked account
// fails with the soft-lock error instead of returning stale bytes.
func (am *AuthorModule) ResolveCode(r *http.Request, req *AccountRequest, res *ResolveResponse) error {
	code, err := am.coreAPI.ResolveCode(types.AccountID(req.Account))
	if err != nil {
		am.logger.Debug("failed to resolve code", "account", req.Account, "err", err)
		return err
	}

	res.Code = common.BytesToHex(code)
	res.Hash = common.MustBlake2bHash(code).String()
	return nil
}
