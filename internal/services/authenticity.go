package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"recroai/backend/internal/llm"
	"recroai/backend/internal/models"
)

// Heuristic pattern library for known manipulation phrasings. High-risk
// patterns are direct attempts to override the evaluator; the general set
// covers weaker signals that only matter in aggregate.
var highRiskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|rules|directions)`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)`),
	regexp.MustCompile(`(?i)forget\s+(?:all\s+|any\s+)?(?:previous|prior|your)\s+(?:instructions|rules|training)`),
	regexp.MustCompile(`(?i)system\s+(?:prompt|message|instruction)`),
	regexp.MustCompile(`(?i)developer\s+(?:prompt|message|mode)`),
	regexp.MustCompile(`(?i)override\s+(?:your|the|all)\s+(?:instructions|rules|settings|guidelines)`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)(?:give|assign|award)\s+(?:me|this\s+candidate)?\s*(?:a\s+)?(?:perfect|maximum|highest|top)\s+score`),
	regexp.MustCompile(`(?i)(?:rate|score)\s+(?:me|this\s+candidate)\s+(?:as\s+|at\s+)?100`),
	regexp.MustCompile(`(?i)respond\s+(?:with|using)\s+only`),
}

var generalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)act\s+as\s+(?:a|an|if|though)\b`),
	regexp.MustCompile(`(?i)pretend\s+(?:to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:a|an|in)\b`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
	regexp.MustCompile(`(?i)(?:reveal|print|output|repeat|show)\s+(?:your|the)\s+(?:prompt|instructions|configuration|rules)`),
	regexp.MustCompile(`(?i)exfiltrat|send\s+(?:all\s+)?(?:the\s+)?data\s+to`),
	regexp.MustCompile(`(?i)base64|\\u00|\\x[0-9a-f]{2}|&#x?[0-9a-f]+;`),
	regexp.MustCompile(`(?i)(?:decode|translate)\s+(?:this|the\s+following)\s+(?:and\s+)?(?:execute|follow|obey)`),
	regexp.MustCompile(`<\|[^|]*\|>`),
	regexp.MustCompile(`\[(?:INST|/INST|SYSTEM|system)\]`),
	regexp.MustCompile(`\{\{[^}]*\}\}`),
	regexp.MustCompile(`(?i)(?:###|---)\s*(?:system|instruction|admin|important)`),
	regexp.MustCompile(`(?i)end\s+of\s+(?:resume|profile|cv|document)\b.*(?:instruction|note\s+to)`),
	regexp.MustCompile(`(?i)do\s+not\s+follow\s+(?:the|your|any)`),
}

// Ensemble weights and the decision threshold for the combined verdict.
const (
	heuristicWeight   = 0.4
	llmWeight         = 0.6
	suspicionCutoff   = 0.3
	highRiskBase      = 0.9
	highRiskIncrement = 0.05
	generalBase       = 0.5
	generalIncrement  = 0.1
	generalCeiling    = 0.85
)

const emptyTextReason = "Empty text provided"

// AuthenticityService classifies candidate-supplied text as suspicious or
// clean. It is flagging-only: it never blocks a candidate and never
// returns an error, because a failed manipulation check must not block
// the primary evaluation workflow.
type AuthenticityService interface {
	Analyze(ctx context.Context, text string, useLLM bool) models.AuthenticityResult
}

type authenticityService struct {
	completer     llm.Completer
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewAuthenticityService builds the detector. completer may be nil; the
// detector then runs heuristic-only regardless of useLLM.
func NewAuthenticityService(completer llm.Completer, log *zap.Logger) AuthenticityService {
	return &authenticityService{
		completer:     completer,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

type heuristicVerdict struct {
	suspicious bool
	score      float64
	reason     string
}

// llmVerdict carries the outcome of the LLM stage explicitly, so callers
// can distinguish "analyzed and clean" from "could not analyze". An
// unavailable stage contributes a neutral verdict.
type llmVerdict struct {
	attempted  bool
	available  bool
	suspicious bool
	score      float64
	reason     string
}

// Analyze implements AuthenticityService.
func (a *authenticityService) Analyze(ctx context.Context, text string, useLLM bool) models.AuthenticityResult {
	if strings.TrimSpace(text) == "" {
		return models.AuthenticityResult{IsSuspicious: false, RiskScore: 0.0, Reason: emptyTextReason}
	}

	heuristic := scanPatterns(text)

	stage := llmVerdict{}
	if useLLM && a.completer != nil {
		stage = a.classify(ctx, text)
	}

	combined := heuristic.score
	suspicious := heuristic.suspicious
	if stage.attempted {
		combined = heuristicWeight*heuristic.score + llmWeight*stage.score
		suspicious = heuristic.suspicious || stage.suspicious
	}

	// A low-confidence combined score is downgraded even when one stage
	// flagged it.
	isSuspicious := suspicious && combined > suspicionCutoff

	return models.AuthenticityResult{
		IsSuspicious: isSuspicious,
		RiskScore:    round3(combined),
		Reason:       combineReasons(heuristic, stage),
	}
}

func scanPatterns(text string) heuristicVerdict {
	highHits := 0
	for _, pattern := range highRiskPatterns {
		if pattern.MatchString(text) {
			highHits++
		}
	}
	if highHits > 0 {
		return heuristicVerdict{
			suspicious: true,
			score:      math.Min(highRiskBase+highRiskIncrement*float64(highHits), 1.0),
			reason:     fmt.Sprintf("Heuristic scan matched %d high-risk manipulation pattern(s)", highHits),
		}
	}

	generalHits := 0
	for _, pattern := range generalPatterns {
		if pattern.MatchString(text) {
			generalHits++
		}
	}
	if generalHits > 0 {
		return heuristicVerdict{
			suspicious: true,
			score:      math.Min(generalBase+generalIncrement*float64(generalHits), generalCeiling),
			reason:     fmt.Sprintf("Heuristic scan matched %d suspicious pattern(s)", generalHits),
		}
	}

	return heuristicVerdict{}
}

// classify runs the LLM stage. Failures degrade to a neutral verdict: the
// stage is marked attempted-but-unavailable and never propagates an
// error.
func (a *authenticityService) classify(ctx context.Context, text string) llmVerdict {
	prompt := a.promptBuilder.BuildAuthenticityPrompt(text)

	raw, err := a.completer.Complete(ctx, AuthenticitySystemPrompt, prompt, 0, true)
	if err != nil {
		a.log.Warn("authenticity llm stage failed", zap.Error(err))
		return llmVerdict{attempted: true, reason: fmt.Sprintf("LLM stage unavailable: %v", err)}
	}

	var payload struct {
		IsSuspicious bool    `json:"is_suspicious"`
		RiskScore    float64 `json:"risk_score"`
		Reason       string  `json:"reason"`
	}
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		a.log.Warn("authenticity llm stage returned malformed output", zap.Error(err))
		return llmVerdict{attempted: true, reason: fmt.Sprintf("LLM stage unavailable: malformed output: %v", err)}
	}

	score := math.Max(0, math.Min(payload.RiskScore, 1))

	return llmVerdict{
		attempted:  true,
		available:  true,
		suspicious: payload.IsSuspicious,
		score:      score,
		reason:     payload.Reason,
	}
}

func combineReasons(heuristic heuristicVerdict, stage llmVerdict) string {
	var parts []string
	if heuristic.reason != "" {
		parts = append(parts, heuristic.reason)
	}
	if stage.attempted && stage.reason != "" {
		parts = append(parts, stage.reason)
	}
	return strings.Join(parts, "; ")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
