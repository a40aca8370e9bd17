package smartrule

import "encoding/json"

// SmartRule is a platform automation rule, either tenant-wide or attached to
// a managed object. The config payload's shape depends on the rule template
// and is carried through as raw JSON.
type SmartRule struct {
	ID               string          `json:"id,omitempty"`
	Name             string          `json:"name,omitempty"`
	Type             string          `json:"type,omitempty"`
	RuleTemplateName string          `json:"ruleTemplateName,omitempty"`
	Enabled          bool            `json:"enabled"`
	EnabledSources   []string        `json:"enabledSources,omitempty"`
	Config           json.RawMessage `json:"config,omitempty"`
	Self             string          `json:"self,omitempty"`
}

// smartRuleCollection mirrors the platform's list envelope.
type smartRuleCollection struct {
	Rules []SmartRule `json:"rules"`
}
