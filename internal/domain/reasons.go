package domain

// ReasonCode is a machine-readable cause for rejecting a redemption.
type ReasonCode string

const (
	ReasonDealNotFound        ReasonCode = "DEAL_NOT_FOUND"
	ReasonInvalidCode         ReasonCode = "INVALID_CODE"
	ReasonDealInactive        ReasonCode = "DEAL_INACTIVE"
	ReasonDealExpired         ReasonCode = "DEAL_EXPIRED"
	ReasonDealNotStarted      ReasonCode = "DEAL_NOT_STARTED"
	ReasonDealExhausted       ReasonCode = "DEAL_EXHAUSTED"
	ReasonUserLimitExceeded   ReasonCode = "USER_LIMIT_EXCEEDED"
	ReasonMinimumOrderNotMet  ReasonCode = "MINIMUM_ORDER_NOT_MET"
	ReasonLocationNotVerified ReasonCode = "LOCATION_VERIFICATION_FAILED"
)

type Reason struct {
	Code    ReasonCode
	Message string
}

func HasReason(reasons []Reason, code ReasonCode) bool {
	for _, r := range reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}
