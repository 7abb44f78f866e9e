package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/rvergnes/edtcal/internal/domain"
)

// scopeValue restricts the --scope flag to the known source scopes, so a
// typo fails at flag parse time instead of silently widening to "all".
type scopeValue domain.SourceScope

var _ pflag.Value = (*scopeValue)(nil)

func (s *scopeValue) String() string { return string(*s) }

func (s *scopeValue) Set(v string) error {
	switch domain.SourceScope(v) {
	case domain.ScopeService, domain.ScopeMain, domain.ScopeVisible, domain.ScopeAll:
		*s = scopeValue(v)
		return nil
	}
	return fmt.Errorf("invalid scope %q (want service, main, visible or all)", v)
}

func (s *scopeValue) Type() string { return "scope" }
