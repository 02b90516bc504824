package model

import (
	"fmt"
	"strings"

	"ecoponto-backend/internal/domain"
)

// Correlation tokens travel to the payment provider as an opaque external
// reference and come back in webhook payloads. Format:
//
//	user_{userID}_plan_{planToken}
//
// The user id must not contain underscores; the plan token may, which is why
// decoding uses a bounded split and joins the remainder back together.
type Correlation struct {
	UserID    string
	PlanToken string
}

// EncodeCorrelationToken builds the opaque token for a user/plan pair.
func EncodeCorrelationToken(userID, planToken string) (string, error) {
	if userID == "" || planToken == "" {
		return "", domain.ErrInvalidArgument
	}
	if strings.Contains(userID, "_") {
		return "", domain.ErrInvalidArgument
	}
	return fmt.Sprintf("user_%s_plan_%s", userID, planToken), nil
}

// DecodeCorrelationToken parses a token back into its parts. It never
// guesses: any deviation from the expected markers or segment count is
// ErrMalformedCorrelationToken.
func DecodeCorrelationToken(token string) (Correlation, error) {
	parts := strings.SplitN(token, "_", 4)
	if len(parts) != 4 || parts[0] != "user" || parts[2] != "plan" {
		return Correlation{}, domain.ErrMalformedCorrelationToken
	}
	if parts[1] == "" || parts[3] == "" {
		return Correlation{}, domain.ErrMalformedCorrelationToken
	}
	return Correlation{UserID: parts[1], PlanToken: parts[3]}, nil
}
