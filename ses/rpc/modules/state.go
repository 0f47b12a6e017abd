// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package modules

import (
	"net/http"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

// StateModule is an RPC module providing read-only access to account
// code slots and the reference store
type StateModule struct {
	coreAPI      CoreAPI
	referenceAPI ReferenceAPI
}

// NewStateModule creates a new state module instance
func NewStateModule(core CoreAPI, refs ReferenceAPI) *StateModule {
	return &StateModule{
		coreAPI:      core,
		referenceAPI: refs,
	}
}

// AccountRequest holds an account query request
type AccountRequest struct {
	Account string `validate:"required"`
}

// AccountInfoResponse describes an account's locality and code slot
type AccountInfoResponse struct {
	Shard      uint32 `json:"shard"`
	CodeStatus string `json:"codeStatus"`
	CodeHash   string `json:"codeHash,omitempty"`
}

// GetAccountInfo returns the account's shard and how its code slot
// currently resolves
func (sm *StateModule) GetAccountInfo(r *http.Request, req *AccountRequest, res *AccountInfoResponse) error {
	status, ac, err := sm.coreAPI.CodeStatus(types.AccountID(req.Account))
	if err != nil {
		return err
	}

	res.CodeStatus = string(status)
	if ac.IsShared() {
		res.Shard = ac.Shard
		res.CodeHash = ac.Hash.String()
	} else {
		res.Shard = sm.coreAPI.Shard()
	}
	return nil
}

// CodeResponse holds the account's code bytes plus sharing metadata
type CodeResponse struct {
	Code   string `json:"code"`
	Shared bool   `json:"shared"`
	Hash   string `json:"hash"`
}

// GetCode returns the account's code bytes as usual, plus a flag
// indicating whether they are served from the shared store. The query
// does not renew the reference.
func (sm *StateModule) GetCode(r *http.Request, req *AccountRequest, res *CodeResponse) error {
	ac, code, err := sm.coreAPI.PeekCode(types.AccountID(req.Account))
	if err != nil {
		return err
	}

	res.Code = common.BytesToHex(code)
	res.Shared = ac.IsShared()
	if ac.IsShared() {
		res.Hash = ac.Hash.String()
	} else {
		res.Hash = common.MustBlake2bHash(code).String()
	}
	return nil
}

// ReferenceRequest holds a reference store query request
type ReferenceRequest struct {
	Hash string `validate:"required"`
}

// ReferenceResponse holds a reference's expiry epoch
type ReferenceResponse struct {
	ExpiryEpoch uint64 `json:"expiryEpoch"`
}

// GetReference returns the expiry epoch of the reference for the given
// content hash
func (sm *StateModule) GetReference(r *http.Request, req *ReferenceRequest, res *ReferenceResponse) error {
	hash, err := common.HexToHash(req.Hash)
	if err != nil {
		return err
	}

	expiry, err := sm.referenceAPI.Expiry(hash)
	if err != nil {
		return err
	}
	res.ExpiryEpoch = expiry
	return nil
}

// ReferencesResponse maps content hashes to expiry epochs
type ReferencesResponse map[string]uint64

// GetReferences returns every live reference and its expiry epoch
func (sm *StateModule) GetReferences(r *http.Request, req *EmptyRequest, res *ReferencesResponse) error {
	entries, err := sm.referenceAPI.Entries()
	if err != nil {
		return err
	}

	*res = make(ReferencesResponse, len(entries))
	for hash, expiry := range entries {
		(*res)[hash.String()] = expiry
	}
	return nil
}
