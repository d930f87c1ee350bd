package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword lists the scorer matches against. Include
// keywords raise relevance, exclude keywords lower it, and context-exclude
// phrases are stronger negative signals for automated or bulk mail.
type Vocabulary struct {
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	ContextExclude []string `yaml:"context_exclude"`
}

// DefaultVocabulary returns the built-in bilingual keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Include: []string{
			"job", "application", "applied", "applying", "interview",
			"position", "recruiter", "recruiting", "hiring", "candidate",
			"resume", "cv", "offer", "onsite", "phone screen",
			"take-home", "assessment", "coding challenge", "talent",
			"求职", "申请", "面试", "职位", "招聘", "简历", "录用", "笔试",
		},
		Exclude: []string{
			"newsletter", "sale", "discount", "promotion", "webinar",
			"limited time", "exclusive deal", "subscribe now",
			"优惠", "促销", "订阅",
		},
		ContextExclude: []string{
			"this is an automated message", "unsubscribe",
			"do not reply to this email", "view this email in your browser",
			"manage your preferences",
			"这是一封自动发送的邮件", "退订",
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file and overlays it on the
// defaults. Lists present in the file replace the corresponding default list
// wholesale; absent lists keep their defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()

	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("read vocabulary: %w", err)
	}

	var overlay Vocabulary
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return vocab, fmt.Errorf("parse vocabulary: %w", err)
	}

	vocab.Merge(overlay)
	return vocab, nil
}

// Merge replaces each list with the overlay's version when non-empty.
func (v *Vocabulary) Merge(overlay Vocabulary) {
	if len(overlay.Include) > 0 {
		v.Include = overlay.Include
	}
	if len(overlay.Exclude) > 0 {
		v.Exclude = overlay.Exclude
	}
	if len(overlay.ContextExclude) > 0 {
		v.ContextExclude = overlay.ContextExclude
	}
}
