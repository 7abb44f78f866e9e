package service

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/repository"
)

type rulesServiceImpl struct {
	rules repository.RulesRepo
}

// NewRulesService creates the normalization-rules editing service. Every
// edit loads the current rules, derives a new value and stores it; the
// stored value is never mutated in place.
func NewRulesService(rules repository.RulesRepo) RulesService {
	return &rulesServiceImpl{rules: rules}
}

func (s *rulesServiceImpl) Get(ctx context.Context) (domain.Rules, error) {
	return s.rules.Get(ctx)
}

func (s *rulesServiceImpl) AddRename(ctx context.Context, c domain.RuleCategory, from, to string) error {
	return s.edit(ctx, func(r domain.Rules) domain.Rules {
		return r.WithRename(c, from, to)
	})
}

func (s *rulesServiceImpl) RemoveRename(ctx context.Context, c domain.RuleCategory, from string) error {
	return s.edit(ctx, func(r domain.Rules) domain.Rules {
		return r.WithoutRename(c, from)
	})
}

func (s *rulesServiceImpl) AddHide(ctx context.Context, c domain.RuleCategory, value string) error {
	return s.edit(ctx, func(r domain.Rules) domain.Rules {
		return r.WithHide(c, value)
	})
}

func (s *rulesServiceImpl) RemoveHide(ctx context.Context, c domain.RuleCategory, value string) error {
	return s.edit(ctx, func(r domain.Rules) domain.Rules {
		return r.WithoutHide(c, value)
	})
}

// rulesFile is the YAML exchange format for rule sets.
type rulesFile struct {
	Teachers ruleSetFile `yaml:"teachers"`
	Promos   ruleSetFile `yaml:"promos"`
	Subjects ruleSetFile `yaml:"subjects"`
}

type ruleSetFile struct {
	Rename map[string]string `yaml:"rename,omitempty"`
	Hide   []string          `yaml:"hide,omitempty"`
}

func (s *rulesServiceImpl) ExportYAML(ctx context.Context) ([]byte, error) {
	rules, err := s.rules.Get(ctx)
	if err != nil {
		return nil, err
	}
	file := rulesFile{
		Teachers: toFile(rules.Teachers),
		Promos:   toFile(rules.Promos),
		Subjects: toFile(rules.Subjects),
	}
	return yaml.Marshal(file)
}

func (s *rulesServiceImpl) ImportYAML(ctx context.Context, data []byte) error {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding rules file: %w", err)
	}
	rules := domain.Rules{
		Teachers: fromFile(file.Teachers),
		Promos:   fromFile(file.Promos),
		Subjects: fromFile(file.Subjects),
	}
	return s.rules.Put(ctx, rules)
}

func (s *rulesServiceImpl) edit(ctx context.Context, fn func(domain.Rules) domain.Rules) error {
	rules, err := s.rules.Get(ctx)
	if err != nil {
		return err
	}
	return s.rules.Put(ctx, fn(rules))
}

func toFile(rs domain.RuleSet) ruleSetFile {
	out := ruleSetFile{Rename: map[string]string{}}
	for k, v := range rs.Rename {
		out.Rename[k] = v
	}
	for k, hidden := range rs.Hide {
		if hidden {
			out.Hide = append(out.Hide, k)
		}
	}
	sort.Strings(out.Hide)
	return out
}

func fromFile(f ruleSetFile) domain.RuleSet {
	rs := domain.RuleSet{Rename: map[string]string{}, Hide: map[string]bool{}}
	for k, v := range f.Rename {
		rs.Rename[k] = v
	}
	for _, v := range f.Hide {
		rs.Hide[v] = true
	}
	return rs
}
