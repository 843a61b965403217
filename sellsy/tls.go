package sellsy

import (
	"fmt"
	"strings"
)

// TLSPolicy decides whether the server certificate is verified
type TLSPolicy int

const (
	// TLSPolicyScheme verifies peers only for https endpoints. Plain http
	// endpoints are meant for local test servers.
	TLSPolicyScheme TLSPolicy = iota
	// TLSPolicyVerify always verifies
	TLSPolicyVerify
	// TLSPolicyInsecure never verifies
	TLSPolicyInsecure
)

// String returns the config name of the policy
func (p TLSPolicy) String() string {
	switch p {
	case TLSPolicyScheme:
		return "scheme"
	case TLSPolicyVerify:
		return "verify"
	case TLSPolicyInsecure:
		return "insecure"
	default:
		return "unknown"
	}
}

// VerifyPeer reports whether a call to apiURL verifies the peer certificate
func (p TLSPolicy) VerifyPeer(apiURL string) bool {
	switch p {
	case TLSPolicyVerify:
		return true
	case TLSPolicyInsecure:
		return false
	default:
		return strings.HasPrefix(strings.ToLower(apiURL), "https")
	}
}

// ParseTLSPolicy parses a config value. Empty means TLSPolicyScheme.
func ParseTLSPolicy(s string) (TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scheme":
		return TLSPolicyScheme, nil
	case "verify":
		return TLSPolicyVerify, nil
	case "insecure":
		return TLSPolicyInsecure, nil
	default:
		return TLSPolicyScheme, fmt.Errorf("invalid tls policy: %s (must be scheme, verify or insecure)", s)
	}
}
