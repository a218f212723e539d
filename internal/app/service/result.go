package service

// ResultStatus names a completed mutation.
type ResultStatus string

const (
	ResultAdded       ResultStatus = "added"
	ResultUpdated     ResultStatus = "updated"
	ResultDeleted     ResultStatus = "deleted"
	ResultAllDeleted  ResultStatus = "all_deleted"
	ResultOrderPlaced ResultStatus = "order_placed"
	ResultImported    ResultStatus = "imported"
)

// Result is the one-shot confirmation returned with a successful mutation.
type Result struct {
	Status  ResultStatus `json:"status"`
	Message string       `json:"message"`
}

func newResult(status ResultStatus, message string) *Result {
	return &Result{Status: status, Message: message}
}
