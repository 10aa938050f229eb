package service

import (
	"fmt"
	"strings"

	"github.com/kdduha/slidegen/internal/models"
)

// CredentialRule is the provider's key format. It only rejects keys that are
// certainly malformed, anything well-formed is left to the provider.
type CredentialRule struct {
	Prefix    string
	MinLength int
}

func (r CredentialRule) withDefaults() CredentialRule {
	if r.Prefix == "" && r.MinLength == 0 {
		return CredentialRule{Prefix: defaultCredentialPrefix, MinLength: defaultCredentialMinLength}
	}
	return r
}

// Check fails with an auth_error for an empty, wrongly prefixed or too short key.
func (r CredentialRule) Check(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return models.NewAuthError("api key is empty")
	case !strings.HasPrefix(key, r.Prefix):
		return models.NewAuthError(fmt.Sprintf("api key must start with %q", r.Prefix))
	case len(key) < r.MinLength:
		return models.NewAuthError(fmt.Sprintf("api key is shorter than %d characters", r.MinLength))
	}
	return nil
}
