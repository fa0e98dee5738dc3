package assets

import (
	"fmt"

	"github.com/alnah/go-leasepdf/internal/yamlutil"
)

// DefaultClauseSetName is the name of the built-in clause set.
const DefaultClauseSetName = "standard"

// Article keys, in document order.
const (
	ArticlePremises     = "premises"
	ArticleTerm         = "term"
	ArticlePayment      = "payment"
	ArticleUtilities    = "utilities"
	ArticleLessor       = "lessor"
	ArticleLessee       = "lessee"
	ArticleSafety       = "safety"
	ArticlePrivacy      = "privacy"
	ArticleMaintenance  = "maintenance"
	ArticleDisputes     = "disputes"
	ArticleForceMajeure = "forceMajeure"
	ArticleTermination  = "termination"
	ArticleAmendments   = "amendments"
	ArticleNotices      = "notices"
	ArticleAppendices   = "appendices"
	ArticleClosing      = "closing"
)

// ArticleOrder lists every article a clause set must define.
var ArticleOrder = []string{
	ArticlePremises, ArticleTerm, ArticlePayment, ArticleUtilities,
	ArticleLessor, ArticleLessee, ArticleSafety, ArticlePrivacy,
	ArticleMaintenance, ArticleDisputes, ArticleForceMajeure, ArticleTermination,
	ArticleAmendments, ArticleNotices, ArticleAppendices, ArticleClosing,
}

// ClauseSet holds the static wording of a lease. Dynamic wording (names,
// amounts, dates) is built from the contract record by the assembler.
type ClauseSet struct {
	Name     string             `yaml:"name"`
	Header   Header             `yaml:"header"`
	Labels   Labels             `yaml:"labels"`
	Articles map[string]Article `yaml:"articles"`
}

// Header is the title block.
type Header struct {
	Nation string   `yaml:"nation"`
	Motto  string   `yaml:"motto"`
	Title  string   `yaml:"title"`
	Basis  []string `yaml:"basis"`
	Intro  string   `yaml:"intro"`
}

// Labels are section captions and short fixed strings.
type Labels struct {
	Lessor        string `yaml:"lessor"`
	Lessee        string `yaml:"lessee"`
	CoOccupants   string `yaml:"coOccupants"`
	Agreement     string `yaml:"agreement"`
	MeterReadings string `yaml:"meterReadings"`
	Notes         string `yaml:"notes"`
	Summary       string `yaml:"summary"`
	Signatures    string `yaml:"signatures"`
	IDCards       string `yaml:"idCards"`
	Documents     string `yaml:"documents"`
	SignHint      string `yaml:"signHint"`
	Unsigned      string `yaml:"unsigned"`
}

// Article is one numbered article. CoOccupant is only used by the lessee
// article and only rendered when co-occupants exist.
type Article struct {
	Title      string   `yaml:"title"`
	Clauses    []string `yaml:"clauses"`
	CoOccupant string   `yaml:"coOccupant,omitempty"`
}

// Article returns the article for key. Callers use keys from ArticleOrder,
// which Validate guarantees are present.
func (c *ClauseSet) Article(key string) Article {
	return c.Articles[key]
}

// ParseClauseSet decodes and validates a clause set. Unknown keys are
// rejected so that typos in an override file surface immediately.
func ParseClauseSet(name string, data []byte) (*ClauseSet, error) {
	var cs ClauseSet
	if err := yamlutil.UnmarshalStrict(data, &cs); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidClauseSet, name, err)
	}
	if cs.Name == "" {
		cs.Name = name
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return &cs, nil
}

// Validate checks that the title and every article are present.
func (c *ClauseSet) Validate() error {
	if c.Header.Title == "" {
		return fmt.Errorf("%w: %q missing header.title", ErrIncompleteClauseSet, c.Name)
	}
	for _, key := range ArticleOrder {
		a, ok := c.Articles[key]
		if !ok {
			return fmt.Errorf("%w: %q missing article %q", ErrIncompleteClauseSet, c.Name, key)
		}
		if a.Title == "" {
			return fmt.Errorf("%w: %q article %q has no title", ErrIncompleteClauseSet, c.Name, key)
		}
	}
	for key := range c.Articles {
		if !knownArticle(key) {
			return fmt.Errorf("%w: %q unknown article %q", ErrInvalidClauseSet, c.Name, key)
		}
	}
	return nil
}

func knownArticle(key string) bool {
	for _, k := range ArticleOrder {
		if k == key {
			return true
		}
	}
	return false
}
