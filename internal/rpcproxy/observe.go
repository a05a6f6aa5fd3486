package rpcproxy

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ashbridge/spyglass/internal/hexdata"
	"github.com/ashbridge/spyglass/internal/observability/metrics"
)

// observe inspects one request/response pair. Anything that does not decode
// the way a deployment would is silently left alone.
func (h *Handler) observe(req, resp *message) {
	if req == nil || req.Method == "" {
		return
	}
	metrics.RPCRequest(req.Method)

	switch req.Method {
	case "eth_sendTransaction":
		h.observeSendTransaction(req, resp)
	case "eth_sendRawTransaction":
		h.observeSendRawTransaction(req, resp)
	case "eth_getTransactionReceipt":
		h.observeReceipt(req, resp)
	}
}

// observeSendTransaction watches for contract creation calls: no recipient
// and non-empty creation data. The node's answer carries the transaction
// hash.
func (h *Handler) observeSendTransaction(req, resp *message) {
	if resp == nil || resp.Error != nil {
		return
	}

	var params []struct {
		To    *string `json:"to"`
		Data  string  `json:"data"`
		Input string  `json:"input"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil || len(params) == 0 {
		return
	}

	call := params[0]
	if call.To != nil && *call.To != "" {
		return
	}
	data := call.Data
	if data == "" {
		data = call.Input
	}
	if !hexdata.HasCode(data) {
		return
	}

	var txHash string
	if err := json.Unmarshal(resp.Result, &txHash); err != nil || !hexdata.IsHash(txHash) {
		return
	}

	h.tracker.TrackSendTransaction(txHash, data)
	h.links.TransactionSubmitted(txHash)
}

// observeSendRawTransaction decodes the signed payload to spot deployments
// submitted pre-signed.
func (h *Handler) observeSendRawTransaction(req, resp *message) {
	if resp == nil || resp.Error != nil {
		return
	}

	var params []string
	if err := json.Unmarshal(req.Params, &params); err != nil || len(params) == 0 {
		return
	}

	raw, err := hexutil.Decode(params[0])
	if err != nil {
		return
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return
	}
	if tx.To() != nil || len(tx.Data()) == 0 {
		return
	}

	var txHash string
	if err := json.Unmarshal(resp.Result, &txHash); err != nil || !hexdata.IsHash(txHash) {
		return
	}

	h.tracker.TrackSendTransaction(txHash, hexutil.Encode(tx.Data()))
	h.links.TransactionSubmitted(txHash)
}

// observeReceipt feeds mined deployment receipts to the tracker. Clients
// poll receipts; the tracker and the link printer both tolerate repeats.
func (h *Handler) observeReceipt(req, resp *message) {
	if resp == nil || resp.Error != nil || len(resp.Result) == 0 {
		return
	}

	var receipt struct {
		TransactionHash string `json:"transactionHash"`
		ContractAddress string `json:"contractAddress"`
	}
	if err := json.Unmarshal(resp.Result, &receipt); err != nil {
		return
	}
	if receipt.ContractAddress == "" {
		return
	}

	txHash := receipt.TransactionHash
	if txHash == "" {
		var params []string
		if err := json.Unmarshal(req.Params, &params); err == nil && len(params) > 0 {
			txHash = params[0]
		}
	}
	if !hexdata.IsHash(txHash) || !hexdata.IsAddress(receipt.ContractAddress) {
		return
	}

	h.tracker.TrackDeploymentReceipt(txHash, receipt.ContractAddress)
	h.links.ContractDeployed(receipt.ContractAddress)
}
