package types

type StatusRequest struct {
}

type StatusResponse struct {
	Health        string `json:"health"`
	Slot          uint64 `json:"slot"`
	NodeVersion   string `json:"nodeVersion"`
	Wallet        string `json:"wallet"`
	WalletBalance uint64 `json:"walletBalance"`
}

type MultisigRequest struct {
}

type Member struct {
	Key         string `json:"key"`
	Permissions string `json:"permissions"`
}

type MultisigResponse struct {
	Multisig              string   `json:"multisig"`
	Vault                 string   `json:"vault"`
	CreateKey             string   `json:"createKey"`
	Threshold             uint16   `json:"threshold"`
	TimeLock              uint32   `json:"timeLock"`
	TransactionIndex      uint64   `json:"transactionIndex"`
	StaleTransactionIndex uint64   `json:"staleTransactionIndex"`
	RentCollector         string   `json:"rentCollector,omitempty"`
	Members               []Member `json:"members"`
	WalletBalance         uint64   `json:"walletBalance"`
	VaultBalance          uint64   `json:"vaultBalance"`
}

type ProposalsRequest struct {
	Index uint64 `form:"index,optional"`
}

type Proposal struct {
	TransactionIndex uint64   `json:"transactionIndex"`
	Proposal         string   `json:"proposal"`
	Transaction      string   `json:"transaction"`
	Status           string   `json:"status"`
	StatusTime       int64    `json:"statusTime,omitempty"`
	ApprovedBy       []string `json:"approvedBy"`
	RejectedBy       []string `json:"rejectedBy"`
	CancelledBy      []string `json:"cancelledBy"`
	Threshold        uint16   `json:"threshold"`
}

type ProposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
}
