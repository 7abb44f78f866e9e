package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rvergnes/edtcal/internal/domain"
)

const rulesKey = "normalization_rules"

// SQLiteRulesRepo persists the normalization rules as a single JSON
// value in the kv table.
type SQLiteRulesRepo struct {
	kv KVRepo
}

// NewSQLiteRulesRepo creates a new SQLiteRulesRepo over a KV store.
func NewSQLiteRulesRepo(kv KVRepo) *SQLiteRulesRepo {
	return &SQLiteRulesRepo{kv: kv}
}

// Get loads the stored rules. Absence is not an error: an empty rule set
// is returned so the pipeline works with zero configuration.
func (r *SQLiteRulesRepo) Get(ctx context.Context) (domain.Rules, error) {
	raw, err := r.kv.Get(ctx, rulesKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.NewRules(), nil
		}
		return domain.Rules{}, err
	}

	rules := domain.NewRules()
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return domain.Rules{}, fmt.Errorf("decoding rules: %w", err)
	}
	return rules, nil
}

func (r *SQLiteRulesRepo) Put(ctx context.Context, rules domain.Rules) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return r.kv.Put(ctx, rulesKey, string(data))
}
