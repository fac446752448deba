package models

import (
	"errors"
	"fmt"
	"strings"
)

// PartnerConfig names a partner and the description keywords identifying
// withdrawals made to them.
type PartnerConfig struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// InvestmentKeywords groups the keywords used by the investment rules.
// Product keywords pair with a direction keyword; standalone keywords
// identify an investment product on their own.
type InvestmentKeywords struct {
	Deposit    []string `yaml:"deposit" json:"deposit"`
	Withdrawal []string `yaml:"withdrawal" json:"withdrawal"`
	Product    []string `yaml:"product" json:"product"`
	Standalone []string `yaml:"standalone" json:"standalone"`
}

// RuleConfig is the data half of the categorization rules: the keyword sets
// and partner identities. Rule order is fixed in code.
type RuleConfig struct {
	Version          string             `yaml:"version" json:"version"`
	Reversal         []string           `yaml:"reversal" json:"reversal"`
	InternalTransfer []string           `yaml:"internal_transfer" json:"internal_transfer"`
	Revenue          []string           `yaml:"revenue" json:"revenue"`
	Partners         []PartnerConfig    `yaml:"partners" json:"partners"`
	Accounting       []string           `yaml:"accounting" json:"accounting"`
	Outbound         []string           `yaml:"outbound" json:"outbound"`
	Investment       InvestmentKeywords `yaml:"investment" json:"investment"`
}

// DefaultRuleConfig returns the built-in rule set used when no rule file exists.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		Version:          "2",
		Reversal:         []string{"estorno"},
		InternalTransfer: []string{},
		Revenue:          []string{"launch pad"},
		Partners: []PartnerConfig{
			{Name: "Fernando", Keywords: []string{"karolyne adrielly normanton", "fernando henrique dias moreira"}},
			{Name: "Jhonatan", Keywords: []string{"jhonatan"}},
		},
		Accounting: []string{"contabilizei"},
		Outbound:   []string{"pix enviado"},
		Investment: InvestmentKeywords{
			Deposit:    []string{"aplicacao"},
			Withdrawal: []string{"resgate"},
			Product:    []string{"porquinho"},
			Standalone: []string{"cdb"},
		},
	}
}

// PartnerNames returns partner names in rule order.
func (c RuleConfig) PartnerNames() []string {
	names := make([]string, 0, len(c.Partners))
	for _, p := range c.Partners {
		names = append(names, p.Name)
	}
	return names
}

// Validate rejects rule files that cannot produce a usable rule set.
func (c RuleConfig) Validate() error {
	if strings.TrimSpace(c.Version) == "" {
		return errors.New("rule set version is required")
	}
	seen := make(map[string]bool)
	for i, p := range c.Partners {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("partner %d has no name", i+1)
		}
		if strings.ContainsAny(name, "()") {
			return fmt.Errorf("partner name %q must not contain parentheses", name)
		}
		if seen[name] {
			return fmt.Errorf("partner %q is defined twice", name)
		}
		seen[name] = true
		if len(nonBlank(p.Keywords)) == 0 {
			return fmt.Errorf("partner %q has no keywords", name)
		}
	}
	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
