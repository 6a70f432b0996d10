package textgen

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	PromptTemplate = "Generate a kind and encouraging description for a help request: %s"

	defaultAugmentTimeout = 15 * time.Second
)

// Augmenter rewrites task descriptions into friendlier ones
type Augmenter struct {
	generator Generator
	timeout   time.Duration
}

func NewAugmenter(generator Generator, timeout time.Duration) *Augmenter {
	if timeout <= 0 {
		timeout = defaultAugmentTimeout
	}

	return &Augmenter{
		generator: generator,
		timeout:   timeout,
	}
}

// Augment asks the generator once for a friendlier description. Any failure
// is logged and the raw description is returned instead, so callers can not
// tell a rewritten text from a fallback one.
func (a *Augmenter) Augment(ctx context.Context, raw string) string {
	if a == nil || a.generator == nil {
		return raw
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.generator.Generate(ctx, fmt.Sprintf(PromptTemplate, raw))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Warn("fail to augment description, fallback to the raw one")
		return raw
	}

	if text == "" {
		return raw
	}

	return text
}
