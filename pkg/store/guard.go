package store

import (
	"fmt"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/watershed-hr/comp-engine/pkg/apperrors"
)

// screenParams runs every user-derived filter value through libinjection
// before it is bound. Parameterized queries already prevent injection;
// the screen rejects hostile input outright instead of querying with it.
func screenParams(name string, values []string) error {
	for _, v := range values {
		if isSQLi, fingerprint := libinjection.IsSQLi(v); isSQLi {
			return fmt.Errorf("%w: %s value %q (fingerprint %s)",
				apperrors.ErrInjectionDetected, name, v, fingerprint)
		}
	}
	return nil
}
