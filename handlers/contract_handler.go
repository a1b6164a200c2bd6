package handlers

import (
	"net/http"

	"github.com/Dosada05/camma-system/services"
)

type ContractHandler struct {
	contractService services.ContractService
}

func NewContractHandler(cs services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: cs}
}

func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	handleCreate("contract", h.contractService.CreateContract)(w, r)
}

func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	handleList("contracts", h.contractService.ListContracts)(w, r)
}

func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	handleGet("contract", "contractID", h.contractService.GetContract)(w, r)
}

func (h *ContractHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "contractID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ContractUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contract, err := h.contractService.UpdateContract(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"contract": contract})
}

// ExtendContract: id контракта приходит в теле, а не в пути.
func (h *ContractHandler) ExtendContract(w http.ResponseWriter, r *http.Request) {
	var input services.ContractExtensionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contract, err := h.contractService.ExtendContract(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{
		"message":     "Contract extended successfully",
		"contract_id": contract.ID,
		"contract":    contract,
	})
}
