package payment

import (
	"gallery-storefront/internal/client"
)

// StillProcessingCode is the error code the status endpoint answers with while
// the buyer has not yet acted on the prompt.
const StillProcessingCode = "500.001.1001"

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	}
	return "pending"
}

// Classify decides what one status answer means. The reason is set only for
// OutcomeFailed.
func Classify(resp *client.StatusResponse) (Outcome, string) {
	if resp == nil {
		return OutcomePending, ""
	}

	switch {
	case resp.ResultCode == "0":
		return OutcomeSuccess, ""
	case resp.ResultCode != "":
		reason := resp.ResultDesc
		if reason == "" {
			reason = "payment failed"
		}
		return OutcomeFailed, reason
	case resp.ErrorCode == StillProcessingCode:
		return OutcomePending, ""
	case resp.ErrorCode != "":
		reason := resp.ErrorMessage
		if reason == "" {
			reason = "payment failed with code " + resp.ErrorCode
		}
		return OutcomeFailed, reason
	}
	return OutcomePending, ""
}
