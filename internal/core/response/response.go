// Package response turns raw AI replies into issues.
//
// Replies are treated as semi-structured: Markdown fences and surrounding
// prose are tolerated, malformed elements are skipped, and a reply that is
// not JSON at all still yields one fallback issue for manual review.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var log = logger.Named("response")

// FallbackDescriptionLimit is the number of raw reply characters kept in a fallback issue.
const FallbackDescriptionLimit = 500

// FallbackSuggestion is the suggestion of the fallback issue.
const FallbackSuggestion = "Le format de la réponse de l'IA n'est pas celui attendu. " +
	"Veuillez vérifier manuellement le document."

// Kind tells which parsing path produced a Result.
type Kind int

const (
	// Structured means the reply was valid JSON.
	Structured Kind = iota

	// Fallback means the reply was not JSON and was wrapped into one issue.
	Fallback
)

// String returns the string representation.
func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the outcome of parsing one reply.
type Result struct {
	// Kind is Structured or Fallback.
	Kind Kind

	// Issues are unattached: no ID, audit or document yet.
	Issues []domain.Issue

	// Skipped counts array elements that could not be read.
	Skipped int

	// Cause is the *ParseError behind a Fallback result.
	Cause error
}

// ParseError reports a reply that is not JSON even after recovery.
// It never leaves this package except as Result.Cause.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parsing ai response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("issue is not a JSON object")

// Parse converts a raw reply into issues. It never fails.
func Parse(raw string) Result {
	elems, _, err := decodeIssues(raw)
	if err != nil {
		log.Warn("AI reply is not structured JSON, using fallback issue: %v", err)
		return fallback(raw, err)
	}

	res := Result{Kind: Structured, Issues: make([]domain.Issue, 0, len(elems))}
	for i, elem := range elems {
		issue, err := parseElement(elem)
		if err != nil {
			log.Warn("Skipping issue %d of AI reply: %v", i, err)
			res.Skipped++
			continue
		}
		res.Issues = append(res.Issues, issue)
	}
	return res
}

// Validate reports whether raw contains a usable issues array.
func Validate(raw string) bool {
	_, found, err := decodeIssues(raw)
	return err == nil && found
}

// Recover strips Markdown fences and surrounding prose from a reply.
func Recover(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "{") {
		if i := strings.Index(s, "{"); i >= 0 {
			s = s[i:]
		}
	}
	if !strings.HasSuffix(s, "}") {
		if i := strings.LastIndex(s, "}"); i >= 0 {
			s = s[:i+1]
		}
	}
	return s
}

// decodeIssues returns the elements of the issues array.
// found is false when the field is absent or not an array.
func decodeIssues(raw string) (elems []json.RawMessage, found bool, err error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(Recover(raw)), &doc); err != nil {
		return nil, false, &ParseError{Err: err}
	}

	field, ok := doc["issues"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(field), []byte("[")) {
		return nil, false, nil
	}
	if err := json.Unmarshal(field, &elems); err != nil {
		return nil, false, nil
	}
	return elems, true, nil
}

func parseElement(elem json.RawMessage) (domain.Issue, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return domain.Issue{}, err
	}
	if fields == nil {
		return domain.Issue{}, errNotObject
	}

	issue := domain.Issue{
		IssueType: domain.DefaultIssueType,
		Status:    domain.IssueOpen,
	}
	if v, ok := text(fields["issueType"]); ok {
		issue.IssueType = v
	}
	issue.Description, _ = text(fields["description"])
	issue.Suggestion, _ = text(fields["suggestion"])
	issue.PageNumber = number(fields["pageNumber"])
	issue.ParagraphNumber = number(fields["paragraphNumber"])

	return issue, nil
}

func fallback(raw string, cause error) Result {
	return Result{
		Kind: Fallback,
		Issues: []domain.Issue{{
			IssueType:   domain.FallbackIssueType,
			Description: firstRunes(raw, FallbackDescriptionLimit),
			Suggestion:  FallbackSuggestion,
			Status:      domain.IssueOpen,
		}},
		Cause: cause,
	}
}

// text renders scalar JSON values. Null, objects and arrays report false.
func text(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// number returns a pointer only for JSON numbers from 1 to math.MaxInt32.
// Fractions are truncated; anything else is absent.
func number(v any) *int {
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil || f < 1 || f > math.MaxInt32 {
		return nil
	}
	out := int(f)
	return &out
}

func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var criticalKeywords = []string{
	"critique",
	"critical",
	"non-conformite",
	"non conformite",
	"nonconformite",
	"non-conforme",
	"non conforme",
	"non-compliance",
	"non-compliant",
	"bloquant",
	"grave",
}

// FilterCritical returns the issues whose type names a critical or
// non-conformity problem. Matching ignores case and accents.
func FilterCritical(issues []domain.Issue) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if IsCritical(issue.IssueType) {
			out = append(out, issue)
		}
	}
	return out
}

// IsCritical reports whether an issue type names a critical problem.
func IsCritical(issueType string) bool {
	folded := fold(issueType)
	for _, kw := range criticalKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
