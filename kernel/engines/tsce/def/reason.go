package def

// Reason is a pipeline level rejection key.
type Reason string

const (
	RunInput     Reason = "RUN_INPUT"
	RunCondition Reason = "RUN_CONDITION"
	RunPeriod    Reason = "RUN_PERIOD"
	RunSet       Reason = "RUN_SET"
	RunFee       Reason = "RUN_FEE"
	NotEnoughFee Reason = "NOT_ENOUGH_FEE"
	NoRecord     Reason = "NO_RECORD"
	RunTag       Reason = "RUN_TAG"
	NoContract   Reason = "NO_CONTRACT"
	InvalidTx    Reason = "INVALID_TX"
	RunUnknown   Reason = "RUN_UNKNOWN"
	ConfigWorld  Reason = "CONFIG_WORLD"
	NoUser       Reason = "NO_USER"
)

// 只读，不要修改
var errorMessage = map[Reason]string{
	RunInput:     "input is not met",
	RunCondition: "condition is not met",
	RunPeriod:    "runnable time period is not met",
	RunSet:       "invalid set directive",
	RunFee:       "invalid set directive",
	NotEnoughFee: "transaction fee shortage",
	NoRecord:     "no record for given pid",
	RunTag:       "tag is not met",
	NoContract:   "corresponding contract does not exist",
	InvalidTx:    "transaction is not valid",
	RunUnknown:   "unknown error occurred",
	ConfigWorld:  "error on configuration of world and chain",
	NoUser:       "error on reading user attributes",
}

// Message returns the fixed info text of the reason.
func (r Reason) Message() string {
	if msg, ok := errorMessage[r]; ok {
		return msg
	}
	return errorMessage[RunUnknown]
}
