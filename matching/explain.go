package matching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/albertocavalcante/go-variantselect/attr"
)

// Explanation receives callbacks while the matcher evaluates candidates.
// It exists for diagnostics only: implementations must not influence the
// outcome of matching.
type Explanation interface {
	// CandidateCompatible is called when a candidate satisfies the
	// requested attributes.
	CandidateCompatible(candidate Candidate, requested attr.Set)

	// CandidateIncompatible is called when a candidate is rejected, with
	// the first attribute that failed.
	CandidateIncompatible(candidate Candidate, key attr.Key, requested, actual string)

	// PrecedenceApplied is called when a precedence rule reduced the
	// surviving candidate set.
	PrecedenceApplied(key attr.Key, preferred string, before, after int)
}

// NopExplanation discards all callbacks. It is the default.
type NopExplanation struct{}

func (NopExplanation) CandidateCompatible(Candidate, attr.Set)                {}
func (NopExplanation) CandidateIncompatible(Candidate, attr.Key, string, string) {}
func (NopExplanation) PrecedenceApplied(attr.Key, string, int, int)          {}

// LogExplanation writes matching decisions to a zap logger at debug
// level.
func LogExplanation(logger *zap.Logger) Explanation {
	return &logExplanation{logger: logger}
}

type logExplanation struct {
	logger *zap.Logger
}

func (l *logExplanation) CandidateCompatible(candidate Candidate, requested attr.Set) {
	l.logger.Debug("candidate compatible",
		zap.String("candidate", describe(candidate)),
		zap.Stringer("requested", requested),
	)
}

func (l *logExplanation) CandidateIncompatible(candidate Candidate, key attr.Key, requested, actual string) {
	l.logger.Debug("candidate incompatible",
		zap.String("candidate", describe(candidate)),
		zap.String("attribute", key.Name),
		zap.String("requested", requested),
		zap.String("actual", actual),
	)
}

func (l *logExplanation) PrecedenceApplied(key attr.Key, preferred string, before, after int) {
	l.logger.Debug("precedence applied",
		zap.String("attribute", key.Name),
		zap.String("preferred", preferred),
		zap.Int("candidates_before", before),
		zap.Int("candidates_after", after),
	)
}

// describe renders a candidate for log output, preferring its Stringer
// form when it has one.
func describe(candidate Candidate) string {
	if s, ok := candidate.(fmt.Stringer); ok {
		return s.String()
	}
	return candidate.VariantAttributes().String()
}
